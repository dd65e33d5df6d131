package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.desk/`
	EnvPrefix      = `DESK`
	EnvFile        = `.env`
)
