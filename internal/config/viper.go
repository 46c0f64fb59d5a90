package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type viperConfig struct {
	v *viper.Viper
}

var _ Config = (*viperConfig)(nil)

// New reads configuration from the environment (QUARTIER_* variables)
// and, when present, a quartier.yaml in the working directory.
func New() Config {
	v := viper.New()
	v.SetEnvPrefix("QUARTIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("app.name", "Quartier")
	v.SetDefault("env", "DEV")
	v.SetDefault("base.url", "http://localhost:8080")
	v.SetDefault("data.file", "./data/quartier.db")
	v.SetDefault("cors.origins", "")
	v.SetDefault("cors.methods", "GET, POST, PUT, PATCH, DELETE")
	v.SetDefault("cors.headers", "Content-Type, Authorization, X-CSRF-Token")
	v.SetDefault("guard.enabled", true)

	v.SetConfigName("quartier")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // config file is optional

	return &viperConfig{v: v}
}

func (c *viperConfig) GetPort() string {
	port := c.v.GetString("port")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (c *viperConfig) GetAppName() string {
	return c.v.GetString("app.name")
}

func (c *viperConfig) GetEnv() string {
	return c.v.GetString("env")
}

func (c *viperConfig) GetBaseURL() string {
	return c.v.GetString("base.url")
}

func (c *viperConfig) GetDataFile() string {
	return c.v.GetString("data.file")
}

func (c *viperConfig) GetAllowedOrigins() AllowedOrigins {
	return ParseAllowedOrigins(strings.Split(c.v.GetString("cors.origins"), ","))
}

func (c *viperConfig) GetAllowedMethods() string {
	return c.v.GetString("cors.methods")
}

func (c *viperConfig) GetAllowedHeaders() string {
	return c.v.GetString("cors.headers")
}

func (c *viperConfig) GetAccessTeamDomain() string {
	return c.v.GetString("access.team.domain")
}

func (c *viperConfig) GetAccessAudience() string {
	return c.v.GetString("access.audience")
}

func (c *viperConfig) GetDevUserEmail() string {
	return c.v.GetString("dev.user.email")
}

func (c *viperConfig) GetDevGitHubToken() string {
	return c.v.GetString("dev.github.token")
}

func (c *viperConfig) GetDevSessionSecret() string {
	return c.v.GetString("dev.session.secret")
}

func (c *viperConfig) GetGuardEnabled() bool {
	return c.v.GetBool("guard.enabled")
}
