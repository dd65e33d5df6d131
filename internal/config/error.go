package config

type ConfigInitError struct {
	msg string
	err error
}

func (e *ConfigInitError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *ConfigInitError) Unwrap() error {
	return e.err
}
