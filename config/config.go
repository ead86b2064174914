package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	InputExcel  string
	InputSheet  string
	LinksColumn string
	OutputExcel string
	FailedCSV   string

	BrowserDriver  string
	Headless       bool
	BrowserBin     string
	BrowserProfile string
	WebDriverPath  string
	SeleniumPort   int
	SeleniumPorts  int

	TermsTimeout    time.Duration
	EnableTimeout   time.Duration
	DetailsTimeout  time.Duration
	RegistryTimeout time.Duration
	SettleDelay     time.Duration
	SettleXPath     string
	PollInterval    time.Duration
	RegistryHosts   []string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	AWSRegion     string
	AWSBucketName string
	AWSKeyPrefix  string

	SendGridAPIKey  string
	ReportEmailTo   string
	ReportEmailFrom string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	InputExcel = getEnv("INPUT_EXCEL", "links.xlsx")
	InputSheet = os.Getenv("INPUT_SHEET")
	LinksColumn = getEnv("LINKS_COLUMN", "links")
	OutputExcel = getEnv("OUTPUT_EXCEL", "vessels.xlsx")
	FailedCSV = getEnv("FAILED_CSV", "failed_urls.csv")

	BrowserDriver = getEnv("BROWSER_DRIVER", "chromedp")
	Headless = getBool("HEADLESS", true)
	BrowserBin = os.Getenv("BROWSER_BIN")
	BrowserProfile = os.Getenv("BROWSER_PROFILE")
	WebDriverPath = os.Getenv("WEBDRIVER_PATH")
	SeleniumPort = getInt("SELENIUM_BASE_PORT", 4444)
	SeleniumPorts = getInt("SELENIUM_PORT_RANGE", 16)

	TermsTimeout = getDuration("TERMS_TIMEOUT", 8*time.Second)
	EnableTimeout = getDuration("ENABLE_TIMEOUT", 5*time.Second)
	DetailsTimeout = getDuration("DETAILS_TIMEOUT", 20*time.Second)
	RegistryTimeout = getDuration("REGISTRY_TIMEOUT", 20*time.Second)
	SettleDelay = getDuration("SETTLE_DELAY", time.Second)
	SettleXPath = os.Getenv("SETTLE_XPATH")
	PollInterval = getDuration("POLL_INTERVAL", 250*time.Millisecond)
	RegistryHosts = getList("REGISTRY_HOSTS")

	MongoURI = os.Getenv("MONGO_URI")
	MongoDatabase = getEnv("MONGO_DATABASE", "vessel_registry")
	MongoCollection = getEnv("MONGO_COLLECTION", "vessels")

	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
	AWSKeyPrefix = getEnv("AWS_KEY_PREFIX", "vessel-registry")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	ReportEmailTo = os.Getenv("REPORT_EMAIL_TO")
	ReportEmailFrom = getEnv("REPORT_EMAIL_FROM", "no-reply@vessel-registry.local")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("1500ms") or plain seconds ("8")
func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	log.Printf("Invalid %s=%q, using %s", key, v, fallback)
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
