package util

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/onyb/satstack/common"
)

var logLevels map[string]string

// InitLog configures the logging infrastructure. Should be called after the
// config file has been loaded.
func InitLog() {
	logLevels = parseLogLevelConfig(viper.GetString(common.CfgLogLevels))

	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)

	if level, err := log.ParseLevel(logLevels["*"]); err == nil {
		log.SetLevel(level)
	}

	if viper.GetBool(common.CfgLogPrintSelfID) {
		log.AddHook(&selfIDHook{id: os.Getpid()})
	}
}

// selfIDHook tags every log entry with the process ID, so that logs from
// several instances running against different devices can be told apart.
type selfIDHook struct {
	id int
}

func (h *selfIDHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *selfIDHook) Fire(entry *log.Entry) error {
	entry.Data["self"] = h.id
	return nil
}

// parseLogLevelConfig parses a config string in the format of
// "<module>:<level>,<module>:<level>" into a map from module name to log
// level. The "*" module sets the default level, warn when omitted.
func parseLogLevelConfig(config string) map[string]string {
	ret := make(map[string]string)
	for _, pair := range strings.Split(config, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			continue
		}
		ret[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if _, ok := ret["*"]; !ok {
		ret["*"] = "warn"
	}
	return ret
}

// GetLoggerForModule returns a logger tagged with the given module name,
// honoring the per-module level from the log.levels config.
func GetLoggerForModule(module string) *log.Entry {
	levelStr, ok := logLevels[module]
	if !ok {
		levelStr = logLevels["*"]
	}
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		level = log.WarnLevel
	}

	logger := log.New()
	logger.Out = os.Stderr
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logger.Formatter = customFormatter
	logger.SetLevel(level)

	return logger.WithFields(log.Fields{"prefix": module})
}
