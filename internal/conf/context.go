package conf

import (
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Context holds what every command needs before settings are resolved.
type Context struct {
	Viper *viper.Viper
	Fs    afero.Fs
}

// NewContext returns a context over the OS filesystem with a fresh viper instance.
func NewContext() *Context {
	return &Context{
		Viper: viper.New(),
		Fs:    afero.NewOsFs(),
	}
}

// Settings resolves settings from the context's viper instance and filesystem.
func (c *Context) Settings(searchPaths ...string) (*Settings, error) {
	return Load(c.Viper, c.Fs, searchPaths...)
}
