package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"cmdbot/internal/adapters/console"
	"cmdbot/internal/adapters/generator"
	"cmdbot/internal/adapters/handler"
	"cmdbot/internal/adapters/sender"
	"cmdbot/internal/core/bot"
	"cmdbot/internal/core/domain"
	"cmdbot/internal/core/port"
	"cmdbot/internal/core/service"
	"cmdbot/internal/extensions/ai"
	"cmdbot/internal/extensions/basic"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	tg "github.com/go-telegram/bot"
)

func main() {
	log.Info().Msg("starting cmdbot...")

	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded .env file")
	}

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	viper.SetConfigName("config")
	viper.AutomaticEnv()

	log.Info().Msg("reading config file...")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	setupLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")

	var tgBot *tg.Bot
	var textSender port.TextSender
	if token != "" {
		b, err := tg.New(token)
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing telegram bot")
		}
		tgBot = b
		textSender = sender.NewTelegramSender(b)
	} else {
		textSender = console.NewSender(os.Stdout)
	}

	opts := []bot.Option{
		bot.WithSelf(domain.User{ID: viper.GetString("bot.self_id"), Name: viper.GetString("bot.self_name")}),
		bot.WithOwnerIDs(viper.GetStringSlice("bot.owner_ids")...),
		bot.WithPrefixes(prefixes()...),
	}
	if viper.GetBool("bot.case_insensitive") {
		opts = append(opts, bot.WithCaseInsensitive())
	}

	engine := bot.New(opts...)
	defer engine.Close()

	authorizer, err := service.NewAuthorizer(textSender)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing authorizer")
	}
	engine.AddCheck(authorizer.Check())

	registerExtensions(textSender)

	for _, name := range viper.GetStringSlice("bot.extensions") {
		if err := engine.LoadExtension(name); err != nil {
			log.Panic().Err(err).Str("extension", name).Msg("failed loading extension")
		}
	}

	if tgBot != nil {
		handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
		if err != nil {
			log.Panic().Err(err).Msg("invalid timeout for handler in config")
		}

		h := handler.NewTelegram(engine, handlerTimeout)
		tgBot.RegisterHandler(tg.HandlerTypeMessageText, "", tg.MatchTypePrefix, h.Handle)

		log.Info().Msg("bot listening on telegram")
		tgBot.Start(ctx)
		return
	}

	log.Info().Msg("no telegram token configured, reading from stdin")
	if err := console.Run(ctx, engine, os.Stdin); err != nil {
		log.Error().Err(err).Msg("console loop ended")
	}
}

func prefixes() []string {
	p := viper.GetStringSlice("bot.prefixes")
	if len(p) == 0 {
		p = []string{"!"}
	}
	return p
}

func registerExtensions(textSender port.TextSender) {
	if err := bot.RegisterExtension("ext.basic", basic.Extension(textSender)); err != nil {
		log.Panic().Err(err).Msg("failed registering basic extension")
	}

	if apiKey := viper.GetString("openrouter.api_key"); apiKey != "" {
		orGenerator := generator.NewOpenRouterGenerator(apiKey,
			viper.GetString("openrouter.model"),
			viper.GetString("chat.system_prompt"))
		if err := bot.RegisterExtension("ext.ai", ai.Extension(orGenerator, textSender)); err != nil {
			log.Panic().Err(err).Msg("failed registering ai extension")
		}
	}
}

func setupLogging() {
	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if path := viper.GetString("bot.log_file"); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
}
