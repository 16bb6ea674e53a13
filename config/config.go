package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Secret  string `yaml:"secret" json:"secret"`
	JwtExpt int    `yaml:"jwt_expt" json:"jwt_expt"` // token lifetime in hours
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ShopAdmin",
		Location: "Asia/Jakarta",
		Workdir:  "/var/shopadmin",
		Debug:    true,
	},
	Web: WebConfig{
		Host:    "0.0.0.0",
		Port:    1816,
		Secret:  "9b6de5cc-shopadmin-b712-7aed-0a312772",
		JwtExpt: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "shopadmin",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/shopadmin/shopadmin.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "shopadmin.yml"
	}
	cfg := DefaultAppConfig
	if _, err := os.Stat(cfile); err == nil {
		data, err := os.ReadFile(cfile)
		if err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("SHOPADMIN_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("SHOPADMIN_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("SHOPADMIN_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("SHOPADMIN_DB_HOST", &cfg.Database.Host)
	setEnvValue("SHOPADMIN_DB_NAME", &cfg.Database.Name)
	setEnvValue("SHOPADMIN_DB_USER", &cfg.Database.User)
	setEnvValue("SHOPADMIN_DB_PWD", &cfg.Database.Passwd)
	setEnvValue("SHOPADMIN_LOGGER_MODE", &cfg.Logger.Mode)

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = path.Join(cfg.System.Workdir, "shopadmin.log")
	}

	return cfg
}
