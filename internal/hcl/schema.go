package hcl

import "github.com/hashicorp/hcl/v2"

// projectRoot is decoded without an evaluation context.
type projectRoot struct {
	Project *projectBlock `hcl:"project,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

// fileRoot holds every block that may reference `profile` or `env`.
type fileRoot struct {
	Tools   *toolsBlock   `hcl:"tools,block"`
	Extract *extractBlock `hcl:"extract,block"`
	Readme  *readmeBlock  `hcl:"readme,block"`
	Tasks   []*taskBlock  `hcl:"task,block"`
	Publish *publishBlock `hcl:"publish,block"`
	Notify  *notifyBlock  `hcl:"notify,block"`
}

type projectBlock struct {
	Plugin      string `hcl:"plugin,optional"`
	PackageFile string `hcl:"package_file,optional"`
	SourceExt   string `hcl:"source_ext,optional"`
}

type toolsBlock struct {
	Xgettext string `hcl:"xgettext,optional"`
	Msgmerge string `hcl:"msgmerge,optional"`
	Msgfmt   string `hcl:"msgfmt,optional"`
	WP       string `hcl:"wp,optional"`
}

type extractBlock struct {
	Include    []string `hcl:"include,optional"`
	Exclude    []string `hcl:"exclude,optional"`
	Keywords   []string `hcl:"keywords,optional"`
	Language   string   `hcl:"language,optional"`
	FromCode   string   `hcl:"from_code,optional"`
	CommentTag string   `hcl:"comment_tag,optional"`
}

type readmeBlock struct {
	Source          string   `hcl:"source,optional"`
	Output          string   `hcl:"output,optional"`
	Marker          string   `hcl:"marker,optional"`
	Fragments       []string `hcl:"fragments,optional"`
	HostVersionFile string   `hcl:"host_version_file,optional"`
}

type taskBlock struct {
	Name  string   `hcl:"name,label"`
	Steps []string `hcl:"steps"`
}

type publishBlock struct {
	Bucket   string `hcl:"bucket"`
	Prefix   string `hcl:"prefix,optional"`
	Region   string `hcl:"region,optional"`
	Endpoint string `hcl:"endpoint,optional"`
}

type notifyBlock struct {
	URL       string `hcl:"url"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
	Insecure  bool   `hcl:"insecure,optional"`
}
