// Package config defines the settings used by the theme alarm binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Besides the server address it covers the theme store, scheduling timings,
// logging and the optional Telegram notifier. Secrets are never stored in
// the YAML file: the bot token is read from the environment, which can be
// populated from a .env file.
package config
