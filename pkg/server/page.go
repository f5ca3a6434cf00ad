package server

import "net/http"

// indexHTML is the demo shell. It connects to /ws, renders each frame
// into #app, and exposes a ripple.set helper on the console for poking
// the model.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>ripple</title>
</head>
<body>
<div id="app"></div>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  var app = document.getElementById("app");

  ws.onmessage = function (msg) {
    var frame = JSON.parse(msg.data);
    if (frame.type === "frame") {
      app.innerHTML = frame.html;
    } else if (frame.type === "error") {
      console.error("ripple:", frame.code, frame.message);
    }
  };

  window.ripple = {
    set: function (key, value) {
      ws.send(JSON.stringify({ type: "set", key: key, value: value }));
    }
  };
})();
</script>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
