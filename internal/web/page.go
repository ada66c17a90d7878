package web

import (
	"fmt"
	"html/template"

	"StockPulse/internal/config"
)

func loginPage(denied bool) []byte {
	notice := ""
	if denied {
		notice = `<p class="denied">Access Denied.</p>`
	}
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stock Monitor</title>
<style>
  body { background: #0E1117; color: #FAFAFA; font-family: sans-serif;
         display: flex; justify-content: center; align-items: center; height: 100vh; }
  form { text-align: center; }
  input { padding: 8px; margin: 4px; background: #262730; color: #FAFAFA;
          border: 1px solid #444; border-radius: 4px; }
  .denied { color: #FF4500; }
</style>
</head>
<body>
<form method="post" action="/login">
  <h2>&#128200; Stock Monitor</h2>
  %s
  <input type="password" name="password" placeholder="Access Code" autofocus>
  <input type="submit" value="Enter">
</form>
</body>
</html>
`, notice))
}

func monitorPage(symbol string, cfg *config.Config) []byte {
	i := cfg.Indicators
	caption := fmt.Sprintf("MA: %d/%d/%d &middot; RSI: %d (%.0f/%.0f) &middot; Data: %s | Refresh: %s",
		i.ShortWindow, i.MediumWindow, i.LongWindow,
		i.RSIWindow, i.Oversold, i.Overbought,
		cfg.DataSource.SampleInterval, cfg.Refresh.Interval)

	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stock Monitor</title>
<style>
  body { background: #0E1117; color: #FAFAFA; font-family: sans-serif; margin: 0; }
  #panel { display: flex; flex-direction: column; justify-content: center;
           align-items: center; text-align: center; height: 85vh;
           font-size: 2.2em; line-height: 1.4; }
  #time { color: #808080; font-size: 0.6em; }
  #controls { position: fixed; top: 12px; left: 12px; font-size: 0.9em; }
  #controls input { padding: 6px; background: #262730; color: #FAFAFA;
                    border: 1px solid #444; border-radius: 4px; text-transform: uppercase; }
  #caption { color: #808080; font-size: 0.75em; margin-top: 6px; }
  @keyframes priceUp   { 0%% { background: rgba(50,205,50,0); } 30%% { background: rgba(50,205,50,0.2); } 100%% { background: rgba(50,205,50,0); } }
  @keyframes priceDown { 0%% { background: rgba(255,69,0,0); } 30%% { background: rgba(255,69,0,0.2); } 100%% { background: rgba(255,69,0,0); } }
  .flash-up   { animation: priceUp 1s ease-out; }
  .flash-down { animation: priceDown 1s ease-out; }
</style>
</head>
<body>
<div id="controls">
  <input id="ticker-input" value="%s" size="8">
  <div id="caption">%s</div>
</div>
<div id="panel">
  <div id="time"></div>
  <div><span id="ticker"></span> <span id="price"></span></div>
  <div id="trend"></div>
  <div id="momentum"></div>
</div>
<script>
function setElement(id, el) {
  var node = document.getElementById(id);
  node.textContent = el.text;
  node.style.color = el.color;
  node.style.fontWeight = el.weight;
}
function refresh() {
  fetch('/api/view', {headers: {'Accept': 'application/json'}})
    .then(function (r) {
      if (r.status === 401) { window.location = '/login'; throw new Error('unauthorized'); }
      return r.json();
    })
    .then(function (vm) {
      setElement('time', vm.time);
      setElement('ticker', vm.ticker);
      setElement('price', vm.price);
      setElement('trend', vm.trend);
      setElement('momentum', vm.momentum);
      var panel = document.getElementById('panel');
      panel.classList.remove('flash-up', 'flash-down');
      if (vm.flash === 'up') { void panel.offsetWidth; panel.classList.add('flash-up'); }
      if (vm.flash === 'down') { void panel.offsetWidth; panel.classList.add('flash-down'); }
    })
    .catch(function () {});
}
document.getElementById('ticker-input').addEventListener('change', function (e) {
  fetch('/api/ticker', {
    method: 'POST',
    headers: {'Content-Type': 'application/json', 'Accept': 'application/json'},
    body: JSON.stringify({symbol: e.target.value})
  }).catch(function () {});
});
refresh();
setInterval(refresh, 1000);
</script>
</body>
</html>
`, template.HTMLEscapeString(symbol), caption))
}
