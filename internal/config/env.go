package config

// Environment variables that override file settings
const (
	EnvPlayer       = "VEGASJACK_PLAYER"
	EnvRecoveryGame = "VEGASJACK_RECOVERY_GAME"
	EnvTheme        = "VEGASJACK_THEME"
)

// ApplyEnv overrides settings from environment variables. lookup is
// os.LookupEnv outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPlayer); ok && v != "" {
		c.Player.Name = v
	}
	if v, ok := lookup(EnvRecoveryGame); ok && v != "" {
		c.Recovery.Game = v
	}
	if v, ok := lookup(EnvTheme); ok && v != "" {
		c.UI.Theme = v
	}
}
