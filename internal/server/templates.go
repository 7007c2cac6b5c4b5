package server

// pageTemplate is the host page. It holds one container per mounted
// browser and the page's only modal element.
const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
  <main class="content">
    <h1 class="page-title">{{.Title}}</h1>
    {{- range .Mounts}}
    <section class="repo-section">
      <h2 class="repo-title">{{.Title}}</h2>
      <div class="repo-browser" id="{{.Container}}" data-base="{{.Base}}">
        <div class="file-loading"><span class="spinner"></span> Loading repository files...</div>
      </div>
    </section>
    {{- else}}
    <p class="empty">No repositories configured. Pass OWNER/REPO to <code>repobrowse serve</code>.</p>
    {{- end}}
  </main>
  {{template "modal" .Modal}}
  <script src="/static/browser.js"></script>
</body>
</html>{{end}}`

// modalTemplate renders the modal overlay in its current state.
const modalTemplate = `{{define "modal"}}<div class="modal-overlay{{if .State.Open}} active{{end}}" id="file-modal" data-close="/s/{{.Session}}/modal/close" data-scroll-locked="{{.State.ScrollLocked}}" data-seq="{{.State.Seq}}">
  <div class="modal">
    <div class="modal-header">
      <h3><span class="modal-icon">{{.State.Icon}}</span> <span class="modal-name">{{.State.Title}}</span></h3>
      <button class="modal-close" title="Close">✕</button>
    </div>
    <div class="modal-body"{{if .State.Open}} data-kind="{{.State.Kind}}"{{end}}>{{.State.Body}}</div>
  </div>
</div>{{end}}`

// cssContent styles the tree and the modal.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-alt: #f6f8fa;
  --border: #d0d7de;
  --text: #1f2328;
  --muted: #656d76;
  --accent: #0969da;
  --error: #cf222e;
}

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
}

.content { max-width: 960px; margin: 0 auto; padding: 24px; }
.page-title { font-size: 1.6rem; }
.repo-section { margin-bottom: 32px; }
.repo-title { font-size: 1.1rem; color: var(--muted); }
a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }

/* ============ File tree ============ */
.file-browser-container { border: 1px solid var(--border); border-radius: 6px; overflow: hidden; }
.file-browser-header {
  display: flex; justify-content: space-between; align-items: center;
  padding: 10px 16px; background: var(--bg-alt); border-bottom: 1px solid var(--border);
}
.file-browser-header h3 { margin: 0; font-size: 0.95rem; }
.file-browser-header a { font-size: 0.85rem; }
.file-tree { max-height: 520px; overflow-y: auto; font-size: 0.9rem; }
.file-item {
  display: flex; align-items: center; gap: 8px;
  padding-top: 6px; padding-bottom: 6px; padding-right: 16px;
  cursor: pointer; user-select: none;
}
.file-item:hover { background: var(--bg-alt); }
.file-item .icon { width: 20px; text-align: center; }
.file-item .name { flex: 1; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.file-item .folder-name { font-weight: 600; }
.file-item .size { color: var(--muted); font-size: 0.8rem; }
.file-children.collapsed { display: none; }
.file-loading { padding: 16px; color: var(--muted); }
.file-error { padding: 16px; color: var(--error); }
.file-error.inline { font-size: 0.85rem; }
.spinner {
  display: inline-block; width: 12px; height: 12px; vertical-align: middle;
  border: 2px solid var(--border); border-top-color: var(--accent); border-radius: 50%;
  animation: spin 0.8s linear infinite;
}
@keyframes spin { to { transform: rotate(360deg); } }

/* ============ Modal ============ */
.modal-overlay {
  display: none; position: fixed; inset: 0; z-index: 1000;
  background: rgba(0, 0, 0, 0.5); align-items: center; justify-content: center;
}
.modal-overlay.active { display: flex; }
.modal {
  background: var(--bg); border-radius: 8px; width: min(900px, 92vw); max-height: 85vh;
  display: flex; flex-direction: column; box-shadow: 0 8px 24px rgba(0, 0, 0, 0.25);
}
.modal-header {
  display: flex; justify-content: space-between; align-items: center;
  padding: 12px 16px; border-bottom: 1px solid var(--border);
}
.modal-header h3 { margin: 0; font-size: 1rem; }
.modal-close { border: none; background: none; font-size: 1.1rem; cursor: pointer; color: var(--muted); }
.modal-body { overflow: auto; padding: 0; }
.modal-body pre { margin: 0; padding: 16px; font-size: 0.85rem; line-height: 1.45; }
.code-block pre { margin: 0; }
.binary-notice { padding: 32px; text-align: center; color: var(--muted); }
.binary-notice .icon { font-size: 2.5rem; }
.notice-link.muted a { color: var(--muted); }
.image-preview { padding: 16px; text-align: center; }
.image-preview img { max-width: 100%; max-height: 70vh; }
`

// jsContent loads trees and swaps the fragments returned by the server.
const jsContent = `(function () {
  'use strict';

  var openSeq = 0;

  function modal() { return document.getElementById('file-modal'); }

  function post(url, body) {
    var opts = { method: 'POST' };
    if (body) {
      opts.body = body;
      opts.headers = { 'Content-Type': 'application/x-www-form-urlencoded' };
    }
    return fetch(url, opts).then(function (res) {
      if (!res.ok) throw new Error('HTTP ' + res.status);
      return res.text();
    });
  }

  function swap(el, html) {
    var t = document.createElement('template');
    t.innerHTML = html.trim();
    var next = t.content.firstElementChild;
    if (el && next) el.replaceWith(next);
    return next;
  }

  function syncScroll() {
    var m = modal();
    document.body.style.overflow = m && m.dataset.scrollLocked === 'true' ? 'hidden' : '';
  }

  function loadTree(container) {
    fetch(container.dataset.base + '/tree').then(function (res) {
      if (res.status === 204) return '';
      return res.text();
    }).then(function (html) {
      if (html) container.innerHTML = html;
    }).catch(function () {
      container.innerHTML = '<div class="file-error">⚠️ Could not load files.</div>';
    });
  }

  function toggle(container, item) {
    var node = item.closest('.file-node');
    var children = node.querySelector('.file-children');
    if (children.dataset.loaded !== 'true') {
      children.classList.remove('collapsed');
      children.innerHTML = '<div class="file-loading"><span class="spinner"></span> Loading...</div>';
    }
    post(container.dataset.base + '/toggle?path=' + encodeURIComponent(item.dataset.path))
      .then(function (html) { swap(node, html); })
      .catch(function () {
        children.innerHTML = '<div class="file-error inline">Failed to load</div>';
      });
  }

  function open(container, item) {
    var seq = ++openSeq;
    var m = modal();
    m.querySelector('.modal-icon').textContent = item.querySelector('.icon').textContent;
    m.querySelector('.modal-name').textContent = item.querySelector('.name').textContent;
    m.querySelector('.modal-body').innerHTML = '<div class="file-loading"><span class="spinner"></span> Loading file...</div>';
    m.classList.add('active');
    document.body.style.overflow = 'hidden';

    post(container.dataset.base + '/open?path=' + encodeURIComponent(item.dataset.path))
      .then(function (html) {
        if (seq !== openSeq) return;
        swap(modal(), html);
        syncScroll();
      })
      .catch(function () {
        if (seq !== openSeq) return;
        modal().querySelector('.modal-body').innerHTML = '<div class="file-error">Could not load file content.</div>';
      });
  }

  function close(trigger) {
    var m = modal();
    if (!m || !m.classList.contains('active')) return;
    openSeq++;
    m.classList.remove('active');
    document.body.style.overflow = '';
    post(m.dataset.close, 'trigger=' + encodeURIComponent(trigger))
      .then(function (html) { swap(modal(), html); syncScroll(); })
      .catch(function () {});
  }

  document.addEventListener('click', function (e) {
    if (e.target.closest('.modal-close')) { close('close-button'); return; }
    if (e.target.id === 'file-modal') { close('overlay'); return; }
    var item = e.target.closest('.file-item');
    var container = item && item.closest('.repo-browser');
    if (!container) return;
    if (item.dataset.kind === 'dir') toggle(container, item);
    else open(container, item);
  });

  document.addEventListener('keydown', function (e) {
    if (e.key === 'Escape') close('escape');
  });

  document.querySelectorAll('.repo-browser').forEach(loadTree);
})();
`
