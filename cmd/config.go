package cmd

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"ducktape.dev/pkg/ducktape/internal/adapter"
	"ducktape.dev/pkg/ducktape/internal/controller"
	"ducktape.dev/pkg/ducktape/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "ducktape"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	resultsRootFlagName   = "results-root"
	logFileFlagName       = "log-file"
	verboseFlagName       = "verbose"
	filePatternFlagName   = "file-pattern"
	methodPatternFlagName = "method-pattern"
	packageMarkerFlagName = "package-marker"
	formatFlagName        = "format"
	debugFlagName         = "debug"
	noSessionFlagName     = "no-session"

	filePatternConfigKey    = "discovery.file_pattern"
	methodPatternConfigKey  = "discovery.method_pattern"
	packageMarkerConfigKey  = "discovery.package_marker"
	fallbackMethodConfigKey = "discovery.fallback_method"
	resultsRootConfigKey    = "session.results_root"
	metadataDirConfigKey    = "session.metadata_dir"
	formatConfigKey         = "output.format"

	defaultResultsRoot  = "results"
	defaultMetadataDir  = ".ducktape"
	defaultOutputFormat = controller.FormatTable

	envPrefix = "DUCKTAPE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".ducktape.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		slog.Warn("could not read config file", "file", configFileName, "error", err)
	}
}

func setDefaults() {
	opts := domain.DefaultOptions()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(filePatternConfigKey, opts.FilePattern)
	viper.SetDefault(methodPatternConfigKey, opts.MethodPattern)
	viper.SetDefault(packageMarkerConfigKey, adapter.DefaultPackageMarker)
	viper.SetDefault(fallbackMethodConfigKey, opts.FallbackMethod)
	viper.SetDefault(resultsRootConfigKey, defaultResultsRoot)
	viper.SetDefault(metadataDirConfigKey, defaultMetadataDir)
	viper.SetDefault(formatConfigKey, defaultOutputFormat)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// discoveryOptions reads the discovery section of the configuration.
func discoveryOptions() (domain.Options, error) {
	opts := domain.Options{
		FilePattern:    viper.GetString(filePatternConfigKey),
		MethodPattern:  viper.GetString(methodPatternConfigKey),
		PackageMarker:  viper.GetString(packageMarkerConfigKey),
		FallbackMethod: viper.GetString(fallbackMethodConfigKey),
	}.WithDefaults()

	return opts, opts.Validate()
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug. A non-nil
// tee receives every record as well and forces Debug.
func configureLogger(logPath string, verbose bool, tee io.Writer) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || tee != nil {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	var logWriter io.Writer = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	if tee != nil {
		logWriter = io.MultiWriter(logWriter, tee)
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
