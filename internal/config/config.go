package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Prompt    PromptConfig    `mapstructure:"prompt"`
	Server    ServerConfig    `mapstructure:"server"`
	LogLevel  string          `mapstructure:"log_level"`
}

type PathsConfig struct {
	VocabPath string `mapstructure:"vocab_path"`
	DictPath  string `mapstructure:"dict_path"`
}

// TokenizerConfig names the special token strings and the per-word guard.
// Every token string must exist in the loaded vocabulary.
type TokenizerConfig struct {
	BodToken     string `mapstructure:"bod_token"`
	EodToken     string `mapstructure:"eod_token"`
	BosToken     string `mapstructure:"bos_token"`
	EosToken     string `mapstructure:"eos_token"`
	PadToken     string `mapstructure:"pad_token"`
	UnkToken     string `mapstructure:"unk_token"`
	LineToken    string `mapstructure:"line_token"`
	SpaceToken   string `mapstructure:"space_token"`
	MaxWordChars int    `mapstructure:"max_word_chars"`
	Segmenter    string `mapstructure:"segmenter"`
}

type PromptConfig struct {
	Length int `mapstructure:"length"`
	TaskID int `mapstructure:"task_id"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			VocabPath: "models/vocab.txt",
			DictPath:  "",
		},
		Tokenizer: TokenizerConfig{
			BodToken:     "<d>",
			EodToken:     "</d>",
			BosToken:     "<s>",
			EosToken:     "</s>",
			PadToken:     "<pad>",
			UnkToken:     "<unk>",
			LineToken:    "</n>",
			SpaceToken:   "</_>",
			MaxWordChars: 200,
			Segmenter:    SegmenterGSE,
		},
		Prompt: PromptConfig{
			Length: 32,
			TaskID: 2,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         2,
			ShutdownTimeout: 30,
			MaxTextBytes:    4096,
			RequestTimeout:  60,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-vocab-path", defaults.Paths.VocabPath, "Path to vocabulary file (one token per line)")
	fs.String("paths-dict-path", defaults.Paths.DictPath, "Path to extra segmentation dictionary")
	fs.String("tokenizer-bod-token", defaults.Tokenizer.BodToken, "Beginning-of-document token")
	fs.String("tokenizer-eod-token", defaults.Tokenizer.EodToken, "End-of-document token")
	fs.String("tokenizer-bos-token", defaults.Tokenizer.BosToken, "Beginning-of-sequence token")
	fs.String("tokenizer-eos-token", defaults.Tokenizer.EosToken, "End-of-sequence token")
	fs.String("tokenizer-pad-token", defaults.Tokenizer.PadToken, "Padding token")
	fs.String("tokenizer-unk-token", defaults.Tokenizer.UnkToken, "Unknown token")
	fs.String("tokenizer-line-token", defaults.Tokenizer.LineToken, "Newline placeholder token")
	fs.String("tokenizer-space-token", defaults.Tokenizer.SpaceToken, "Space placeholder token")
	fs.Int("tokenizer-max-word-chars", defaults.Tokenizer.MaxWordChars, "Per-word length guard for subword segmentation")
	fs.String("tokenizer-segmenter", defaults.Tokenizer.Segmenter, "Word segmenter (gse|rule)")
	fs.Int("prompt-length", defaults.Prompt.Length, "Synthetic prompt prefix length")
	fs.Int("prompt-task-id", defaults.Prompt.TaskID, "Task conditioning id for the prompt prefix")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent encode requests")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("CPMTOK")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("paths.vocab_path", "CPMTOK_VOCAB", "CPMTOK_VOCAB_PATH"); err != nil {
		return Config{}, fmt.Errorf("bind vocab env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("cpmtok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.vocab_path", c.Paths.VocabPath)
	v.SetDefault("paths.dict_path", c.Paths.DictPath)
	v.SetDefault("tokenizer.bod_token", c.Tokenizer.BodToken)
	v.SetDefault("tokenizer.eod_token", c.Tokenizer.EodToken)
	v.SetDefault("tokenizer.bos_token", c.Tokenizer.BosToken)
	v.SetDefault("tokenizer.eos_token", c.Tokenizer.EosToken)
	v.SetDefault("tokenizer.pad_token", c.Tokenizer.PadToken)
	v.SetDefault("tokenizer.unk_token", c.Tokenizer.UnkToken)
	v.SetDefault("tokenizer.line_token", c.Tokenizer.LineToken)
	v.SetDefault("tokenizer.space_token", c.Tokenizer.SpaceToken)
	v.SetDefault("tokenizer.max_word_chars", c.Tokenizer.MaxWordChars)
	v.SetDefault("tokenizer.segmenter", c.Tokenizer.Segmenter)
	v.SetDefault("prompt.length", c.Prompt.Length)
	v.SetDefault("prompt.task_id", c.Prompt.TaskID)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("paths.vocab_path", "paths-vocab-path")
	v.RegisterAlias("paths.dict_path", "paths-dict-path")
	v.RegisterAlias("tokenizer.bod_token", "tokenizer-bod-token")
	v.RegisterAlias("tokenizer.eod_token", "tokenizer-eod-token")
	v.RegisterAlias("tokenizer.bos_token", "tokenizer-bos-token")
	v.RegisterAlias("tokenizer.eos_token", "tokenizer-eos-token")
	v.RegisterAlias("tokenizer.pad_token", "tokenizer-pad-token")
	v.RegisterAlias("tokenizer.unk_token", "tokenizer-unk-token")
	v.RegisterAlias("tokenizer.line_token", "tokenizer-line-token")
	v.RegisterAlias("tokenizer.space_token", "tokenizer-space-token")
	v.RegisterAlias("tokenizer.max_word_chars", "tokenizer-max-word-chars")
	v.RegisterAlias("tokenizer.segmenter", "tokenizer-segmenter")
	v.RegisterAlias("prompt.length", "prompt-length")
	v.RegisterAlias("prompt.task_id", "prompt-task-id")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.workers", "server-workers")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.request_timeout", "server-request-timeout")
	v.RegisterAlias("log_level", "log-level")
}
