package server

import "net/http"

// viewer serves a single-page graph browser. It builds a mesh through the
// JSON API and renders the result with vis-network from a CDN, so the binary
// ships no static assets.
func (s *Server) viewer(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(viewerHTML))
}

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Knowledge Mesh</title>
  <script src="https://unpkg.com/vis-network@9.1.9/dist/vis-network.min.js"></script>
  <style>
    body { font-family: sans-serif; margin: 0; }
    #controls { padding: 12px; border-bottom: 1px solid #ddd; display: flex; gap: 8px; align-items: center; flex-wrap: wrap; }
    #controls input[type=url] { flex: 1; min-width: 280px; padding: 6px; }
    #controls input[type=number] { width: 70px; padding: 6px; }
    #graph { height: calc(100vh - 110px); }
    #status { padding: 6px 12px; color: #555; font-size: 13px; min-height: 18px; }
    .warning { color: #b45309; }
    .error { color: #b91c1c; }
  </style>
</head>
<body>
  <div id="controls">
    <input id="url" type="url" placeholder="https://example.com" autofocus>
    <label>Max entities <input id="max-entities" type="number" value="50" min="1"></label>
    <label>Max pages shown <input id="max-pages" type="number" value="25" min="0"></label>
    <label><input id="skip-links" type="checkbox"> Skip links</label>
    <label><input id="same-domain" type="checkbox"> Same domain only</label>
    <button id="build">Build mesh</button>
  </div>
  <div id="status"></div>
  <div id="graph"></div>
  <script>
    const status = document.getElementById('status');
    const container = document.getElementById('graph');
    let network = null;

    function nodeColor(node) {
      if (node.type === 'page') {
        return node.role === 'source' ? '#dc2626' : '#60a5fa';
      }
      return '#34d399';
    }

    async function render() {
      const maxPages = document.getElementById('max-pages').value || 0;
      const resp = await fetch('/v1/mesh/graph?max_pages=' + maxPages);
      const data = await resp.json();
      const nodes = data.nodes.map(n => ({
        id: n.id,
        label: n.id.length > 40 ? n.id.slice(0, 37) + '…' : n.id,
        title: n.id + ' (' + n.type + (n.role ? ', ' + n.role : '') + ')',
        color: nodeColor(n),
        shape: n.type === 'page' ? 'box' : 'dot',
      }));
      const edges = data.edges.map(e => ({
        from: e.from, to: e.to, label: e.relation, arrows: 'to', font: { size: 9 },
      }));
      network = new vis.Network(container, { nodes, edges }, {
        physics: { stabilization: { iterations: 200 } },
      });
    }

    document.getElementById('build').addEventListener('click', async () => {
      const url = document.getElementById('url').value.trim();
      if (!url) { status.textContent = 'Enter a URL first.'; return; }
      status.textContent = 'Building mesh…';
      status.className = '';
      try {
        const resp = await fetch('/v1/mesh', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({
            url: url,
            max_entities: Number(document.getElementById('max-entities').value) || 50,
            skip_links: document.getElementById('skip-links').checked,
            same_domain_only: document.getElementById('same-domain').checked,
          }),
        });
        const body = await resp.json();
        if (!resp.ok) {
          status.textContent = body.error || ('request failed with ' + resp.status);
          status.className = 'error';
          return;
        }
        const warnings = (body.warnings || []).join('; ');
        status.textContent = body.node_count + ' nodes, ' + body.edge_count + ' edges' +
          (warnings ? ' — ' + warnings : '');
        status.className = warnings ? 'warning' : '';
        await render();
      } catch (err) {
        status.textContent = String(err);
        status.className = 'error';
      }
    });
  </script>
</body>
</html>
`
