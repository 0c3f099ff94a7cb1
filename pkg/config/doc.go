// Package config loads the generation configuration of spine-mc.
//
// # Overview
//
// Configuration lives in a YAML file next to the proto sources. LoadFromDir
// looks for spine-mc.yaml, spine-mc.yml, .spine-mc.yaml or .spine-mc.yml and
// falls back to Default when none exists. Keys missing from the file keep
// their default values; a list present in the file replaces the default list.
//
// # File Format
//
//	interfaces:
//	  uuid_message: io.spine.base.UuidValue
//	  entity_state: io.spine.base.EntityState
//	  patterns:
//	    - pattern: {suffix: events.proto}
//	      interface: io.spine.base.EventMessage
//	  messages:
//	    - type: acme.sales.Summary
//	      interface: com.acme.Totals
//	methods:
//	  uuid_message: io.spine.tools.mc.java.gen.UuidMethodFactory
//	  patterns:
//	    - pattern: {regex: ".*/ids\\.proto"}
//	      factory: com.acme.IdMethods
//	user_options: true
//	exclude: [vendor/]
//	enrichment:
//	  validate: true
//
// An empty interface or factory name disables the entry. A pattern sets
// exactly one of prefix, suffix or regex. When a pattern is listed twice the
// later entry wins.
//
// # Environment
//
// SPINE_MC_LOG_LEVEL, SPINE_MC_LOG_FORMAT, SPINE_MC_WORKERS and
// SPINE_MC_OTEL_ENDPOINT override the observability and generation settings.
package config
