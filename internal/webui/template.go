package webui

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Instagram Scrape Console</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 60em; color: #222; }
textarea { width: 24em; height: 8em; }
.success { color: #176617; }
.warning { color: #8a6d00; }
.error { color: #a11; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #bbb; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Instagram Scrape Console</h1>

<form method="POST" action="/">
<p><label>Accounts (one per line, up to {{.MaxAccts}}):<br>
<textarea name="accounts" placeholder="natgeo&#10;@cristiano">{{.Accounts}}</textarea></label></p>
<p><label>Posts per account (1&ndash;10):
<input type="number" name="posts" min="1" max="10" value="{{.Posts}}"></label></p>
<p><button type="submit">Run scrape</button>
<a href="/dashboard">Dashboard</a>
<a href="/export.csv">Download CSV</a></p>
</form>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}

{{if .Ran}}
<p class="{{.StatusKind}}">{{.StatusMsg}}</p>
<p>{{.Dispatched}} account(s) dispatched.</p>
{{if .Failures}}
<ul>
{{range .Failures}}<li class="error">{{.Username}}: {{.Message}}</li>{{end}}
</ul>
{{end}}

{{if .Snapshot.Rows}}
<h2>Latest sheet data ({{.Snapshot.Count}} rows)</h2>
<table>
<tr>{{range .Snapshot.Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Snapshot.Rows}}
<tr>{{$row := .}}{{range $.Snapshot.Columns}}<td>{{index $row .}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
{{end}}

</body>
</html>
`
