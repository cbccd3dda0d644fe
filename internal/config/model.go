package config

import (
	"path"

	"github.com/specialistvlad/i18nrun/internal/profile"
)

// Model is the unified representation of the build configuration.
type Model struct {
	Project Project
	Tools   Tools
	Extract Extract
	Readme  Readme
	// Tasks holds user-defined tasks and overrides of the built-in ones.
	Tasks   map[string]*Task
	Publish *Publish
	Notify  *Notify
}

// Project selects the profile.
type Project struct {
	Plugin      string
	PackageFile string
	SourceExt   string
}

// Tools names the external executables.
type Tools struct {
	Xgettext string
	Msgmerge string
	Msgfmt   string
	WP       string
}

// Extract configures source discovery and the extraction tool.
type Extract struct {
	Include    []string
	Exclude    []string
	Keywords   []string
	Language   string
	FromCode   string
	CommentTag string
}

// Readme configures the readme regeneration chain.
type Readme struct {
	Source          string
	Output          string
	Marker          string
	Fragments       []string
	HostVersionFile string
}

// Task is a named, ordered list of step or task names.
type Task struct {
	Name  string
	Steps []string
}

// Publish configures uploads to an S3-compatible bucket.
type Publish struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

// Notify configures the socket.io progress observer.
type Notify struct {
	URL       string
	Namespace string
	Event     string
	Insecure  bool
}

// DefaultKeywords are the marker functions recognized by the extraction tool.
var DefaultKeywords = []string{
	"_", "__", "_e", "_c:1,2c", "_x:1,2c", "_ex:1,2c",
	"_n:1,2", "_nx:1,2,4c", "_n_noop:1,2", "_nx_noop:1,2,3c",
	"esc_attr__", "esc_html__", "esc_attr_e", "esc_html_e",
	"esc_attr_x:1,2c", "esc_html_x:1,2c",
}

// GenericExclude skips build artifacts, dependencies and tests.
var GenericExclude = []string{"node_modules/**", "vendor/**", "tests/**", "dev/**"}

// PluginExclude extends GenericExclude for plugin checkouts.
var PluginExclude = append(append([]string{}, GenericExclude...),
	".git/**", "bin/**", "tmp/**", "*/vendor/**")

// DefaultFragments are concatenated, in order, into the readme body.
var DefaultFragments = []string{"README.md", "INSTALLATION.md", "FAQ.md", "CHANGELOG.md"}

// Default returns the built-in configuration.
func Default() *Model {
	return &Model{
		Project: Project{
			PackageFile: "package.json",
			SourceExt:   profile.DefaultSourceExt,
		},
		Tools: Tools{
			Xgettext: "xgettext",
			Msgmerge: "msgmerge",
			Msgfmt:   "msgfmt",
			WP:       "wp",
		},
		Extract: Extract{
			Language:   "PHP",
			FromCode:   "UTF-8",
			CommentTag: "translators",
		},
		Readme: Readme{
			Source:          "readme.txt",
			Output:          "readme.txt",
			Marker:          "== Description ==",
			Fragments:       append([]string{}, DefaultFragments...),
			HostVersionFile: path.Join("..", "..", "..", "wp-includes", "version.php"),
		},
		Tasks: map[string]*Task{},
	}
}

// ExtractFor fills the profile-dependent extraction defaults that were not
// configured explicitly.
func (m *Model) ExtractFor(p *profile.Profile) Extract {
	e := m.Extract
	if len(e.Include) == 0 {
		ext := m.Project.SourceExt
		if ext == "" {
			ext = profile.DefaultSourceExt
		}
		e.Include = []string{"**/*." + ext}
	}
	if e.Exclude == nil {
		if p.Kind == profile.Plugin {
			e.Exclude = append([]string{}, PluginExclude...)
		} else {
			e.Exclude = append([]string{}, GenericExclude...)
		}
	}
	if len(e.Keywords) == 0 {
		e.Keywords = append([]string{}, DefaultKeywords...)
	}
	return e
}
