package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyServer    = "server"
	keyTokenFile = "token_file"
	keyTimeout   = "timeout"
)

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".imageworld"
	}
	return filepath.Join(home, ".imageworld")
}

// newConfig layers flags over IMAGEWORLD_* env over ~/.imageworld/config.toml over defaults.
func newConfig(root *cobra.Command) *viper.Viper {
	v := viper.New()
	configDir := defaultConfigDir()

	v.SetDefault(keyServer, "http://localhost:3000")
	v.SetDefault(keyTokenFile, filepath.Join(configDir, "token"))
	v.SetDefault(keyTimeout, "60s")

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("IMAGEWORLD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.String("server", "", "API base URL")
	flags.String("token-file", "", "where the login token is kept")
	flags.Duration("timeout", 0, "HTTP timeout")
	_ = v.BindPFlag(keyServer, flags.Lookup("server"))
	_ = v.BindPFlag(keyTokenFile, flags.Lookup("token-file"))
	_ = v.BindPFlag(keyTimeout, flags.Lookup("timeout"))

	return v
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func timeout(v *viper.Viper) time.Duration {
	d := v.GetDuration(keyTimeout)
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
