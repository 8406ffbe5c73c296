// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports multiple
// sources using koanf as the underlying library.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (via LoadMap)
//  2. Environment variables (SNIPKIT_SECTION__KEY)
//  3. Configuration file (YAML)
//  4. Default values
package confloader
