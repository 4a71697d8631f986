package template

// Invoke renders the manual invoke form of a host command and its last output
var Invoke = `
<strong>{{.Command}}</strong>
{{if .Output}}
<pre>{{.Output}}</pre>
<a href="invoke/{{.Command}}">Back</a>
{{else}}
<form method="post" action="invoke/{{.Command}}">
	<input type="text" name="path" placeholder="Path" /><br />
	<input type="submit" value="Invoke" />
</form>
{{end}}
`
