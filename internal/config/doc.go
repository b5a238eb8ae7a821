// Package config provides configuration types and loading for ranfuzz-ctl.
//
// Configuration is a TOML file, ranfuzz.toml in the working directory by
// default:
//
//	compose_dir   = "compose/"
//	logs_dir      = "tests"
//	batch_size    = 4
//	poll_interval = "1s"
//	cooldown      = "2s"
//	wait_timeout  = "0s"        # 0 waits forever
//	marker        = "Network attach successful."
//	project_prefix = "srsRAN_"
//	compose_command = ""        # auto-detect docker-compose / docker compose
//	log_source    = "compose"   # or "docker" for the Engine API
//	archive_logs  = false
//	metrics_file  = ""
//
// Keys missing from the file keep their defaults. Command-line flags and
// the trailing compose directory argument override file values before the
// Config is handed to the controller.
package config
