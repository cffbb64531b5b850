package config

import (
	"io/ioutil"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const FileName = "typelang.yaml"

type Config struct {
	Prompt   string   `yaml:"Prompt"`
	LogLevel string   `yaml:"LogLevel"`
	Prelude  []string `yaml:"Prelude,omitempty"`
	Root     string   `yaml:"Root,omitempty"`
}

func Default() Config {
	return Config{
		Prompt:   "typelang> ",
		LogLevel: "NOTICE",
	}
}

// Load reads the config at path over the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return cfg, tracerr.Wrap(err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, tracerr.Wrap(err)
	}

	return cfg, nil
}

func (c Config) Save(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return tracerr.Wrap(err)
	}

	err = ioutil.WriteFile(path, out, 0644)
	if err != nil {
		return tracerr.Wrap(err)
	}

	return nil
}

func (c Config) Level() (capnslog.LogLevel, error) {
	level, err := capnslog.ParseLevel(c.LogLevel)
	if err != nil {
		return capnslog.NOTICE, tracerr.Wrap(err)
	}
	return level, nil
}
