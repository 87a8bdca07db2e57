// Package config loads program configuration with Viper.
//
// LoadConfig looks for config.yml and .env files in the usual places
// (cmd/<service>/, config/, the working directory), then lets environment
// variables override file values. Underscore separated names are bound to
// every nesting they could mean, so OPENAPI_ACCESS_KEY reaches
// openapi.access_key.
//
// # Usage
//
//	var cfg CLIConfig
//	if err := config.LoadConfig("openapi", &cfg, config.WithConfigFile(path)); err != nil {
//	    return err
//	}
package config
