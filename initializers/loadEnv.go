package initializers

import (
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port      string `env:"PORT,default=8080"`
	GinMode   string `env:"GIN_MODE,default=release"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	DBDSN       string `env:"DB_DSN,required"`
	RedisURL    string `env:"REDIS_URL"`
	CORSOrigins string `env:"CORS_ORIGINS,default=http://localhost:3000"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=720h"`

	PendingOrderTTL       time.Duration `env:"PENDING_ORDER_TTL,default=30m"`
	ShippingCharge        float64       `env:"SHIPPING_CHARGE,default=40"`
	FreeShippingThreshold float64       `env:"FREE_SHIPPING_THRESHOLD,default=500"`
	CancelWindow          time.Duration `env:"CANCEL_WINDOW,default=24h"`
	OTPTTL                time.Duration `env:"OTP_TTL,default=5m"`
	OTPRatePerMinute      int           `env:"OTP_RATE_PER_MINUTE,default=3"`
	LoginRatePerMinute    int           `env:"LOGIN_RATE_PER_MINUTE,default=10"`

	RazorpayKeyID     string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `env:"RAZORPAY_KEY_SECRET"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM"`

	MediaBackend        string `env:"MEDIA_BACKEND,default=cloudinary"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	AWSRegion           string `env:"AWS_REGION,default=ap-south-1"`
	AWSBucket           string `env:"AWS_BUCKET"`

	ElasticsearchURL   string `env:"ELASTICSEARCH_URL"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX,default=products"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM"`

	AdminSeedEmail    string `env:"ADMIN_SEED_EMAIL"`
	AdminSeedPassword string `env:"ADMIN_SEED_PASSWORD"`
}

// LoadEnv reads .env when present and decodes the process environment into a Config.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using system environment variables")
	}
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
