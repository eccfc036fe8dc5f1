package http

const pageTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Video Captioning Tool</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:960px;margin:0 auto;padding:1rem}
.layout{display:grid;grid-template-columns:1fr 1fr;gap:16px;align-items:start}
.panel{border:1px solid #ddd;border-radius:8px;padding:12px}
video{width:100%;border-radius:6px;background:#000}
label{display:block;margin-top:8px}
input[type=text],input[type=number]{width:100%;padding:6px;box-sizing:border-box}
button{margin-top:10px;padding:6px 12px}
table{width:100%;border-collapse:collapse}
td,th{text-align:left;padding:4px;border-bottom:1px solid #eee}
.notice{padding:8px;border-radius:6px;margin-bottom:6px}
.notice.ok{background:#e6faf4;color:#067a5b}
.notice.err{background:#fdecef;color:#a8183b}
.muted, small{color:#666}
</style>

<h1>Video Captioning Tool</h1>

{{range .Notices}}
  <div class="notice {{if .Success}}ok{{else}}err{{end}}" role="status">{{.Text}}</div>
{{end}}

<div class="layout">
  <div class="panel">
    <video controls src="{{.MediaURL}}" crossorigin="anonymous">
      {{if .TrackURL}}<track kind="subtitles" srclang="{{.Language}}" label="{{.Label}}" src="{{.TrackURL}}" default>{{end}}
    </video>
  </div>

  <div class="panel">
    <h3>Add Caption</h3>
    <form method="post" action="/captions">
      <label>Caption text <input type="text" name="text" autocomplete="off"></label>
      <label>Start time (seconds) <input type="number" name="startTime" step="0.001"></label>
      <label>End time (seconds) <input type="number" name="endTime" step="0.001"></label>
      <button type="submit">Add Caption</button>
    </form>

    <h3>Upload Captions</h3>
    <form method="post" action="/captions/import" enctype="multipart/form-data">
      <input type="file" name="file" accept=".json,application/json">
      <button type="submit">Upload</button>
    </form>
  </div>
</div>

<section class="panel" style="margin-top:16px">
  <h3>Captions</h3>
  {{if .Captions}}
  <table>
    <tr><th>#</th><th>Text</th><th>Start</th><th>End</th></tr>
    {{range $i, $c := .Captions}}
    <tr><td>{{inc $i}}</td><td>{{$c.Text}}</td><td>{{ts $c.StartTime}}</td><td>{{ts $c.EndTime}}</td></tr>
    {{end}}
  </table>
  {{range .Skipped}}
  <div class="muted">Caption {{.Index}} is not shown: {{.Reason}}</div>
  {{end}}
  <button id="clear" type="button">Clear all</button>
  {{else}}
  <small>No captions yet</small>
  {{end}}
</section>

<script>
(function(){
  var clear = document.getElementById('clear');
  if (!clear) return;
  clear.addEventListener('click', function(){
    fetch('/captions', {method: 'DELETE'}).then(function(){ window.location.reload(); });
  });
})();
</script>
</html>`
