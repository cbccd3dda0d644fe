package hcl

import "github.com/specialistvlad/i18nrun/internal/config"

// Only attributes that were set override the model; unset strings and nil
// lists keep the defaults.

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayList(dst *[]string, v []string) {
	if v != nil {
		*dst = v
	}
}

func (l *Loader) translateProject(m *config.Model, b *projectBlock) {
	overlayString(&m.Project.Plugin, b.Plugin)
	overlayString(&m.Project.PackageFile, b.PackageFile)
	overlayString(&m.Project.SourceExt, b.SourceExt)
}

func (l *Loader) translateRoot(m *config.Model, root *fileRoot) {
	if b := root.Tools; b != nil {
		overlayString(&m.Tools.Xgettext, b.Xgettext)
		overlayString(&m.Tools.Msgmerge, b.Msgmerge)
		overlayString(&m.Tools.Msgfmt, b.Msgfmt)
		overlayString(&m.Tools.WP, b.WP)
	}
	if b := root.Extract; b != nil {
		overlayList(&m.Extract.Include, b.Include)
		overlayList(&m.Extract.Exclude, b.Exclude)
		overlayList(&m.Extract.Keywords, b.Keywords)
		overlayString(&m.Extract.Language, b.Language)
		overlayString(&m.Extract.FromCode, b.FromCode)
		overlayString(&m.Extract.CommentTag, b.CommentTag)
	}
	if b := root.Readme; b != nil {
		overlayString(&m.Readme.Source, b.Source)
		overlayString(&m.Readme.Output, b.Output)
		overlayString(&m.Readme.Marker, b.Marker)
		overlayList(&m.Readme.Fragments, b.Fragments)
		overlayString(&m.Readme.HostVersionFile, b.HostVersionFile)
	}
	for _, t := range root.Tasks {
		if m.Tasks == nil {
			m.Tasks = make(map[string]*config.Task)
		}
		m.Tasks[t.Name] = &config.Task{Name: t.Name, Steps: t.Steps}
	}
	if b := root.Publish; b != nil {
		m.Publish = &config.Publish{
			Bucket:   b.Bucket,
			Prefix:   b.Prefix,
			Region:   b.Region,
			Endpoint: b.Endpoint,
		}
	}
	if b := root.Notify; b != nil {
		n := &config.Notify{
			URL:       b.URL,
			Namespace: b.Namespace,
			Event:     b.Event,
			Insecure:  b.Insecure,
		}
		if n.Namespace == "" {
			n.Namespace = "/"
		}
		if n.Event == "" {
			n.Event = "i18n"
		}
		m.Notify = n
	}
}
