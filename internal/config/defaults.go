package config

const (
	defaultStateDir   = "~/.local/share/deepclean"
	defaultArchiveDir = "archive"
	defaultBackupDir  = "_ARCHIVED_PROJECTS/legacy_code"
	defaultSourceDir  = "src"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults. The layout and
// patch rules reproduce the web-app migration deepclean was written for.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Layout: Layout{
			ArchiveDir: defaultArchiveDir,
			BackupDir:  defaultBackupDir,
			SourceDir:  defaultSourceDir,
			Directories: []string{
				"src/services",
				"src/components",
				"src/context",
				"src/styles",
				"src/assets",
				"public",
			},
			Clutter: []string{".DS_Store", "thumbs.db", "yarn-error.log"},
			Merges: []Merge{
				{From: "src/ai", Into: "src/services"},
				{From: "src/firebase", Into: "src/services"},
			},
			Moves: []Move{
				{From: "src/index.css", To: "src/styles/index.css"},
			},
		},
		Patch: Patch{
			Extensions: []string{".jsx", ".js"},
			Replacements: []Replacement{
				{Old: "from './ai/gemini'", New: "from '../services/gemini'"},
				{Old: "from '../ai/gemini'", New: "from '../services/gemini'"},
				{Old: "from './firebase/auth'", New: "from '../services/auth'"},
				{Old: "from '../firebase/auth'", New: "from '../services/auth'"},
				{Old: "from './firebase/config'", New: "from '../services/config'"},
				{Old: "from '../firebase/config'", New: "from '../services/config'"},
				{Old: "from './index.css'", New: "from './styles/index.css'"},
				{Old: "from '../index.css'", New: "from '../styles/index.css'"},
			},
			SpecialCases: []SpecialCase{
				{FileName: "main.jsx", Old: "import './index.css'", New: "import './styles/index.css'"},
			},
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// clearLists drops list defaults so a config file that sets a list replaces
// it instead of being merged into the defaults by the TOML decoder.
func (c *Config) clearLists() {
	c.Layout.Directories = nil
	c.Layout.Clutter = nil
	c.Layout.Merges = nil
	c.Layout.Moves = nil
	c.Patch.Extensions = nil
	c.Patch.Replacements = nil
	c.Patch.SpecialCases = nil
}

// fillListDefaults restores every list the config file left unset. An
// explicitly empty list stays empty.
func (c *Config) fillListDefaults(def Config) {
	if c.Layout.Directories == nil {
		c.Layout.Directories = def.Layout.Directories
	}
	if c.Layout.Clutter == nil {
		c.Layout.Clutter = def.Layout.Clutter
	}
	if c.Layout.Merges == nil {
		c.Layout.Merges = def.Layout.Merges
	}
	if c.Layout.Moves == nil {
		c.Layout.Moves = def.Layout.Moves
	}
	if c.Patch.Extensions == nil {
		c.Patch.Extensions = def.Patch.Extensions
	}
	if c.Patch.Replacements == nil {
		c.Patch.Replacements = def.Patch.Replacements
	}
	if c.Patch.SpecialCases == nil {
		c.Patch.SpecialCases = def.Patch.SpecialCases
	}
}
