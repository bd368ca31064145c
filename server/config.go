package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Default configuration values.
const (
	defaultAddress        = "localhost"
	defaultPort           = 4000
	defaultMaxConnections = 5
	defaultLogFilename    = "numbers.log"
	defaultReportPeriod   = 10
)

// Config holds every recognised configuration option: bind address/port,
// the live-connection cap, the persisted-log path and the report
// interval in seconds.
type Config struct {
	Address        string `json:"address"`
	Port           int    `json:"port"`
	MaxConnections int    `json:"maxConnections"`
	LogFilename    string `json:"logFilename"`
	ReportPeriod   int    `json:"reportPeriodSeconds"`
}

// defaultConfig returns a Config populated with the default values.
func defaultConfig() Config {
	return Config{
		Address:        defaultAddress,
		Port:           defaultPort,
		MaxConnections: defaultMaxConnections,
		LogFilename:    defaultLogFilename,
		ReportPeriod:   defaultReportPeriod,
	}
}

// parseJSONConfig decodes path into config, overriding only the fields
// present in the file — same override-over-flags shape as the teacher's
// own `-c` option.
func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return errors.Wrap(err, "decode config file")
	}
	return nil
}
