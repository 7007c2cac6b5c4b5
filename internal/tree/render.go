package tree

import (
	"html/template"
	"io"
)

var templates = template.Must(template.New("tree").Parse(`
{{define "node"}}{{if .Dir}}<div class="file-node" data-path="{{.Entry.Path}}">
  <div class="file-item" data-kind="dir" data-path="{{.Entry.Path}}" style="padding-left: {{.Indent}}px">
    <span class="icon">{{.Icon}}</span>
    <span class="name folder-name">{{.Entry.Name}}</span>
    <span class="size arrow">{{.Glyph}}</span>
  </div>
  <div class="file-children{{if not .Expanded}} collapsed{{end}}" data-path="{{.Entry.Path}}" data-loaded="{{.Loaded}}">
  {{- if .Loading}}
    <div class="file-loading" style="padding: 8px {{.ChildIndent}}px"><span class="spinner"></span> Loading...</div>
  {{- else if .Error}}
    <div class="file-error inline" style="padding: 8px {{.ChildIndent}}px">{{.Error}}</div>
  {{- else}}{{range .Children}}
    {{template "node" .}}{{end}}
  {{- end}}
  </div>
</div>{{else}}<div class="file-item" data-kind="file" data-path="{{.Entry.Path}}" style="padding-left: {{.Indent}}px">
  <span class="icon">{{.Icon}}</span>
  <span class="name">{{.Entry.Name}}</span>
  <span class="size">{{.Size}}</span>
</div>{{end}}{{end}}

{{define "tree"}}<div class="file-browser-container">
  <div class="file-browser-header">
    <h3>📂 Repository Files</h3>
    <a href="{{.RepoURL}}" target="_blank" rel="noopener">View on GitHub →</a>
  </div>
  <div class="file-tree" id="file-tree-{{.Container}}">
  {{- if .Error}}
    <div class="file-error">
      ⚠️ Could not load files.{{if .RateLimited}} GitHub API rate limit may have been reached.{{end}}
      <br><small>Try again in a few minutes, or <a href="{{.RepoURL}}" target="_blank" rel="noopener">view on GitHub</a>.</small>
    </div>
  {{- else if not .Ready}}
    <div class="file-loading"><span class="spinner"></span> Loading repository files...</div>
  {{- else}}{{range .Rows}}
    {{template "node" .}}{{end}}
  {{- end}}
  </div>
</div>{{end}}
`))

// RenderTree writes the browser header and the whole tree.
func RenderTree(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "tree", v)
}

// RenderNode writes a single row; directories include their children.
func RenderNode(w io.Writer, r Row) error {
	return templates.ExecuteTemplate(w, "node", r)
}
