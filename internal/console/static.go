package console

import "net/http"

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(`body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;background:#0b0c0f;color:#e6e6e6}
a{color:#91c9ff;text-decoration:none} a:hover{text-decoration:underline}
header{display:flex;justify-content:space-between;align-items:center;padding:12px 20px;border-bottom:1px solid #1b1d22;background:#111318}
.container{max-width:1100px;margin:0 auto;padding:20px}
.btn{display:inline-block;padding:8px 12px;border:1px solid #2a2d34;background:#1a1d26;color:#e6e6e6;border-radius:6px;cursor:pointer}
.btn-primary{background:#2563eb;border-color:#2563eb}
input{width:100%;padding:8px;background:#0f1116;color:#e6e6e6;border:1px solid #2a2d34;border-radius:6px;box-sizing:border-box}
.card{border:1px solid #2a2d34;border-radius:10px;padding:16px;background:#0f1116;margin-bottom:16px}
.narrow{max-width:380px;margin:60px auto}
.error{color:#fca5a5;border:1px solid #7f1d1d;background:#1f0f10;border-radius:6px;padding:8px;margin:8px 0}
.small{opacity:.7} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}
pre{background:#0f1116;border:1px solid #2a2d34;border-radius:8px;padding:8px;white-space:pre-wrap}
.tag{display:inline-block;padding:2px 6px;margin:2px;border:1px solid #2a2d34;border-radius:4px;font-size:12px}`))
}

// app.js: загрузка представлений, ручной повтор и обновление по фокусу окна.
func serveJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Write([]byte(`async function getView(url){const r=await fetch(url,{headers:{'Accept':'application/json'}});return r.json()}
async function postJSON(url, body){const r=await fetch(url,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(body||{})});return r.json()}
async function show(url){const out=document.getElementById('view');if(!out)return;out.textContent='Loading...';
const v=await getView(url);if(v.state==='loading'){setTimeout(()=>show(url),1000);return}
if(v.state==='error'){out.textContent=v.error.message+(v.retry?'\n\nRetry: '+v.retry:'');return}
out.textContent=v.state==='empty'?'Nothing to show.':JSON.stringify(v.data,null,2)}
window.addEventListener('focus',()=>{fetch('/console/focus',{method:'POST'})});
document.addEventListener('click',e=>{const a=e.target.closest('a[data-view]');if(!a)return;e.preventDefault();show(a.getAttribute('href'))});
`))
}
