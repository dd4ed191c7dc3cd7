package config

import _ "embed"

//go:embed opskit.yaml
var DefaultConfigYaml string

//go:embed .env.example
var EnvExample string
