// Package config loads the settings that shape ropes, wrapping, and logging.
//
// Settings are resolved in layers, each overriding the one before:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← ROPETREE_*
//	├─────────────────────────────┤
//	│  2. TOML File               │  ← Load(path)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// A TOML file looks like:
//
//	[rope]
//	max_children = 8
//	max_fragments = 8
//	max_fragment_size = 512
//	depth_slack = 2
//
//	[wrap]
//	width = 80
//	tab_width = 4
//	measure = "cells"
//
//	[logging]
//	level = "info"
//
// Unknown keys are rejected so typos surface as errors instead of being
// silently ignored.
package config
