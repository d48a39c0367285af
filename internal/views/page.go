package views

import (
	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
)

// Page wraps body in the full html document.
func Page(title string, theme string, body elem.Node) string {
	page := elem.Html(attrs.Props{attrs.Lang: "en", "data-theme": esc(theme)},
		elem.Head(attrs.Props{},
			elem.Meta(attrs.Props{attrs.Charset: "utf-8"}),
			elem.Meta(attrs.Props{attrs.Name: "viewport", attrs.Content: "width=device-width, initial-scale=1"}),
			elem.Title(attrs.Props{}, text(title)),
			elem.Script(attrs.Props{
				attrs.Src: "https://unpkg.com/htmx.org@2.0.4",
			}),
			elem.Style(attrs.Props{}, elem.Raw(css)),
			elem.Script(attrs.Props{}, elem.Raw(commonJS)),
		),
		elem.Body(attrs.Props{}, body),
	)
	return "<!DOCTYPE html>" + page.Render()
}

// Fragment renders a node on its own for htmx swaps.
func Fragment(node elem.Node) string {
	return node.Render()
}

const commonJS = `
function closeModal() {
  var v = document.getElementById('camera-video');
  if (v) { v.pause(); v.removeAttribute('src'); }
  document.getElementById('modal').innerHTML = '';
}
`

const eventsJS = `
(function () {
  if (!window.EventSource) return;
  var es = new EventSource('/events?stream=snapshot');
  es.addEventListener('snapshot', function () {
    htmx.trigger(document.body, 'snapshot');
  });
})();
`

const callbackJS = `
(function () {
  var status = document.getElementById('callback-status');
  var body = new URLSearchParams();
  body.set('fragment', window.location.hash || '');
  fetch('/auth/callback', { method: 'POST', body: body }).then(function (r) {
    if (r.ok) { window.location.replace('/'); return; }
    return r.text().then(function (t) { status.textContent = t || 'Sign in failed'; });
  }).catch(function () { status.textContent = 'Network error'; });
})();
`

// the stream request is already done, this only watches the player
const cameraJS = `
(function () {
  var v = document.getElementById('camera-video');
  var box = document.getElementById('camera-error');
  if (!v || !box) return;
  var fail = function (msg) {
    box.querySelector('.camera-error-text').textContent = msg + ' ';
    box.classList.remove('hidden');
  };
  var timer = setTimeout(function () {
    if (v.readyState < 2 && !v.error) fail('The video does not load. Check the connection.');
  }, parseInt(v.dataset.timeoutMs, 10) || 15000);
  var clear = function () { clearTimeout(timer); };
  v.addEventListener('canplay', clear);
  v.addEventListener('playing', clear);
  v.addEventListener('error', function () { clear(); fail('Video playback error.'); });
})();
`

const css = `
:root { --bg: #f2f3f5; --card: #fff; --text: #1c1c1e; --muted: #8e8e93; --accent: #6b4cff; --danger: #d93025; }
[data-theme="dark"] { --bg: #121214; --card: #1f1f23; --text: #f2f2f7; --muted: #8e8e93; --accent: #8f7bff; }
* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, system-ui, sans-serif; background: var(--bg); color: var(--text); }
.top-bar { display: flex; justify-content: space-between; align-items: center; padding: 12px 16px; }
.app-title, .auth-title { margin: 0; font-size: 22px; }
.top-actions { display: flex; gap: 8px; align-items: center; }
.inline { display: inline; }
.btn { border: 0; border-radius: 10px; padding: 8px 14px; background: var(--card); color: var(--text); cursor: pointer; text-decoration: none; }
.btn-primary { background: var(--accent); color: #fff; display: inline-block; margin-bottom: 12px; }
.btn-link { background: transparent; color: var(--accent); }
.muted { color: var(--muted); }
.hidden { display: none; }
.loading { padding: 32px; text-align: center; color: var(--muted); }
.error-banner { margin: 8px 16px; padding: 10px 14px; border-radius: 10px; background: var(--danger); color: #fff; }
.retry-btn { margin-left: 8px; border: 0; border-radius: 8px; padding: 4px 10px; cursor: pointer; }
.filters { display: flex; gap: 8px; overflow-x: auto; padding: 0 16px 8px; }
.filter-chip { border: 0; border-radius: 14px; padding: 8px 12px; background: var(--card); color: var(--text); cursor: pointer; text-align: left; }
.filter-chip.active { background: var(--accent); color: #fff; }
.chip-count { display: block; font-size: 12px; opacity: .7; }
.room-section { padding: 8px 16px; }
.room-header { display: flex; justify-content: space-between; font-weight: 600; margin: 8px 0; }
.devices-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(150px, 1fr)); gap: 10px; }
.device-card { position: relative; background: var(--card); border-radius: 16px; padding: 12px; min-height: 110px; }
.device-card.offline { opacity: .55; }
.device-head { cursor: pointer; }
.device-icon { font-size: 26px; }
.device-name { font-weight: 600; margin-top: 6px; word-break: break-word; }
.device-status { font-size: 12px; color: var(--muted); margin-top: 2px; }
.power-form { position: absolute; top: 8px; right: 8px; }
.power-btn { width: 32px; height: 32px; border-radius: 50%; border: 0; background: var(--bg); color: var(--muted); cursor: pointer; }
.power-btn.on { background: var(--accent); color: #fff; }
.card-controls { margin-top: 8px; display: flex; flex-direction: column; gap: 6px; }
.slider { width: 100%; }
.control-row { display: flex; justify-content: space-between; align-items: center; gap: 8px; margin: 8px 0; }
.control-label { font-size: 12px; color: var(--muted); }
.color-presets, .mode-row { display: flex; flex-wrap: wrap; gap: 4px; }
.color-btn { width: 22px; height: 22px; border-radius: 50%; border: 1px solid rgba(0,0,0,.1); cursor: pointer; }
.mode-btn { border: 0; border-radius: 8px; padding: 4px 8px; background: var(--bg); color: var(--text); cursor: pointer; }
.mode-btn.active { background: var(--accent); color: #fff; }
.toggle-switch { width: 44px; height: 24px; border-radius: 12px; border: 0; background: var(--bg); position: relative; cursor: pointer; }
.toggle-switch .toggle-knob { position: absolute; top: 3px; left: 3px; width: 18px; height: 18px; border-radius: 50%; background: #fff; }
.toggle-switch.on { background: var(--accent); }
.toggle-switch.on .toggle-knob { left: 23px; }
.readout-row { display: flex; justify-content: space-between; }
.readout-bar { height: 4px; background: var(--bg); border-radius: 2px; }
.readout-fill { height: 4px; background: var(--accent); border-radius: 2px; }
.modal { position: fixed; inset: 0; z-index: 10; }
.modal-backdrop { position: absolute; inset: 0; background: rgba(0,0,0,.45); }
.modal-body { position: relative; margin: 5vh auto; max-width: 520px; max-height: 90vh; overflow-y: auto; background: var(--card); border-radius: 16px; padding: 16px; }
.modal-header { display: flex; align-items: center; gap: 8px; }
.modal-title { flex: 1; margin: 0; font-size: 18px; }
.modal-close { border: 0; background: transparent; font-size: 24px; color: var(--muted); cursor: pointer; }
.device-about { margin-top: 16px; }
.device-about-title { font-weight: 600; margin-bottom: 6px; }
.device-about-row { display: flex; justify-content: space-between; gap: 12px; padding: 4px 0; font-size: 14px; }
.device-about-label { color: var(--muted); }
.device-about-value { text-align: right; word-break: break-all; }
.group-device-item { display: flex; align-items: center; gap: 8px; padding: 6px 0; cursor: pointer; }
.group-device-name { flex: 1; }
.scenario-row { display: flex; justify-content: space-between; align-items: center; padding: 8px 0; }
.camera-video { width: 100%; border-radius: 12px; background: #000; margin-top: 8px; }
.debug-content { width: 100%; font-family: monospace; font-size: 12px; }
.auth-screen { max-width: 420px; margin: 15vh auto; padding: 24px; background: var(--card); border-radius: 16px; }
.token-form { display: flex; gap: 8px; }
.token-input { flex: 1; padding: 8px; border-radius: 10px; border: 1px solid var(--muted); background: var(--bg); color: var(--text); }
`
