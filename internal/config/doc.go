// Package config loads inboxroute settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. Command-line flags are applied last by the cmd
// package, so the effective precedence is flag > env > file > default.
//
// The YAML file supports ${VAR} expansion so secrets such as the Maps API key
// can stay in the environment:
//
//	google:
//	  credentials_file: /etc/inboxroute/credentials.json
//	maps:
//	  api_key: ${GOOGLE_MAPS_API_KEY}
//	server:
//	  transport: streamable-http
//	  http_addr: ":8080"
//	  remote_timeout: 20s
package config
