package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/stekc/myTimeAPI/server/timezone"
)

// Profile is the configuration to start the schedule server and runners.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string `mapstructure:"mode" validate:"oneof=prod dev"`
	// Addr is the binding address for server
	Addr string `mapstructure:"addr"`
	// Port is the binding port for server
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
	// Data is the data directory
	Data string `mapstructure:"data"`
	// Driver is the seen-shift database driver (sqlite or postgres)
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	// DSN points to the seen-shift database
	DSN string `mapstructure:"dsn"`
	// Version is the current version of server
	Version string `mapstructure:"-"`

	// Employer API
	EmployeeID  string `mapstructure:"employee-id" validate:"required,numeric"`
	APIKey      string `mapstructure:"api-key" validate:"required"`
	StoreNumber string `mapstructure:"store-number"`
	BaseURL     string `mapstructure:"base-url" validate:"omitempty,url"`
	StoreURL    string `mapstructure:"store-url" validate:"omitempty,url"`
	// Timezone is the IANA zone schedule dates are read in.
	Timezone          string        `mapstructure:"timezone"`
	UpstreamTimeout   time.Duration `mapstructure:"upstream-timeout" validate:"gt=0"`
	UpstreamRateLimit float64       `mapstructure:"upstream-rate-limit" validate:"gte=0"`
	CacheTTL          time.Duration `mapstructure:"cache-ttl" validate:"gt=0"`

	// Credential storage: "file" or "keyring"
	CredentialBackend string `mapstructure:"credential-backend" validate:"oneof=file keyring"`
	CredentialFile    string `mapstructure:"credential-file"`
	// TokenCommand prints a fresh Authorization header on stdout.
	TokenCommand string `mapstructure:"token-command"`

	// HTTP facade
	AuthKey   string  `mapstructure:"auth-key"`
	RateLimit float64 `mapstructure:"rate-limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate-burst" validate:"gte=0"`

	// Notifications
	PushoverAppToken string `mapstructure:"pushover-app-token"`
	PushoverUserKey  string `mapstructure:"pushover-user-key"`
	WebhookURL       string `mapstructure:"webhook-url" validate:"omitempty,url"`
	WebhookSecret    string `mapstructure:"webhook-secret"`

	// Open shift watcher
	WatchInterval time.Duration `mapstructure:"watch-interval" validate:"gte=0"`
	WatchWeeks    int           `mapstructure:"watch-weeks" validate:"gte=1,lte=12"`
	WatchFilter   string        `mapstructure:"watch-filter"`
}

// Defaults are applied to the viper instance before flags, environment and
// config file are read.
var Defaults = map[string]any{
	"mode":                "dev",
	"addr":                "",
	"port":                8000,
	"driver":              "sqlite",
	"timezone":            "Local",
	"upstream-timeout":    30 * time.Second,
	"upstream-rate-limit": 0.0,
	"cache-ttl":           5 * time.Minute,
	"credential-backend":  "file",
	"rate-limit":          10.0,
	"rate-burst":          20,
	"watch-interval":      15 * time.Minute,
	"watch-weeks":         4,
}

var validate = validator.New()

// EnvPrefix is the prefix of every environment variable, e.g. MYTIME_EMPLOYEE_ID.
const EnvPrefix = "mytime"

// SetDefaults registers Defaults and the environment binding on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind every field explicitly.
	for _, key := range Keys() {
		_ = v.BindEnv(key)
	}
}

// Keys returns the configuration key of every Profile field.
func Keys() []string {
	t := reflect.TypeOf(Profile{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" && key != "-" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Load reads the profile from v. When configFile is set it is merged first.
func Load(v *viper.Viper, configFile string) (*Profile, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	p := &Profile{}
	if err := v.Unmarshal(p); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	return p, nil
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Location returns the configured schedule timezone.
// An empty value selects the host's local timezone.
func (p *Profile) Location() (*time.Location, error) {
	loc, err := timezone.ParseTimezone(p.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load schedule timezone")
	}
	return loc, nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate checks field constraints and fills in paths derived from the data directory.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, err := p.Location(); err != nil {
		return err
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "mytime")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/mytime"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		p.DSN = filepath.Join(dataDir, fmt.Sprintf("mytime_%s.db", p.Mode))
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}
	if p.CredentialBackend == "file" && p.CredentialFile == "" {
		p.CredentialFile = filepath.Join(dataDir, "credential.toml")
	}
	return nil
}
