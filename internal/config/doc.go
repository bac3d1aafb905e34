// Package config loads chailab server configuration.
//
// # Overview
//
// Configuration is optional: Default() describes a local server on
// 127.0.0.1:7860 serving the greet demo. A file passed with --config
// overrides any subset of it. Files ending in .toml are read as TOML,
// everything else as YAML.
//
// # Environment Variables
//
// ${VAR} references are expanded before parsing. Unset variables expand to
// an empty string:
//
//	auth:
//	  jwt_secret: "${CHAILAB_JWT_SECRET}"
//
// # Example
//
//	server:
//	  host: "127.0.0.1"
//	  port: 7860
//	  startup_timeout: "10s"   # readiness poll bound for non-blocking launch
//	  shutdown_timeout: "5s"   # graceful http.Server shutdown
//	  join_timeout: "2s"       # bound on Close waiting for the serve goroutine
//
//	launch:
//	  open_browser: false
//	  inline: false
//	  share: false             # needs tailscale.funnel
//
//	logging:
//	  level: "info"            # debug, info, warn, error
//	  format: "text"           # text, json
//
//	auth:
//	  jwt_secret: "${CHAILAB_JWT_SECRET}"
//	  token_ttl: "24h"
//	  users:
//	    - name: "ada"
//	      password_hash: "$2a$10$..."   # chailab hash-password
//
//	database:
//	  path: "./data/predictions.db"   # empty disables the prediction log
//
//	tailscale:
//	  enabled: false
//	  hostname: "chailab"
//	  auth_key: "${TS_AUTHKEY}"
//	  state_dir: "./data/tsnet"
//	  ephemeral: false
//	  funnel: false
//
//	app:
//	  name: "greet"            # see `chailab apps`
//	  title: ""
//	  theme: "default"         # default, dark, blue, green, purple
//
// # Validation
//
// Load validates after parsing and returns the first problem found, e.g. an
// out-of-range port, an unknown log level, or funnel without tailscale.
package config
