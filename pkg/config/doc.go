// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each package owns its configuration type and declares it with `env` tags;
// the host application loads what it needs:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
//	var redisCfg redis.Config
//	config.MustLoad(&redisCfg)
//
// Load caches parsed values per type, so wiring code in different packages
// can load the same configuration without re-reading the environment.
package config
