package server

import (
	"bytes"

	"github.com/rshade/webtables/internal/markup"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem}
.webtable-table{border-collapse:collapse;width:100%}
.webtable-table th,.webtable-table td{border-bottom:1px solid #ddd;padding:.35rem .6rem;text-align:left}
.webtable-table .num{text-align:right}
.webtable-pager ul,.webtable-pagesize{display:flex;gap:.25rem;list-style:none;padding:0}
.webtable-pager li,.webtable-pagesize li{padding:.15rem .5rem}
.active{font-weight:bold}.disabled{color:#999}`

// pageScript follows region links as partial renders: it requests only the
// regions named on the link and swaps them into the enclosing container.
const pageScript = `document.addEventListener("click", async (ev) => {
  const link = ev.target.closest("a[data-webtable-regions]");
  const box = link && link.closest("[data-webtable]");
  if (!box) return;
  ev.preventDefault();
  const regions = link.dataset.webtableRegions.split(" ");
  const url = new URL(link.href);
  const flags = {table: "renderTable", pagination: "renderPagination", pagesize: "renderPageSize"};
  for (const r of regions) url.searchParams.set(flags[r], "true");
  const res = await fetch(url);
  if (!res.ok) { location.href = link.href; return; }
  const doc = new DOMParser().parseFromString(await res.text(), "text/html");
  for (const r of regions) {
    const next = doc.querySelector("[data-webtable-region='" + r + "']");
    const cur = box.querySelector("[data-webtable-region='" + r + "']");
    if (next && cur) cur.replaceWith(next);
  }
  history.replaceState(null, "", link.href);
});`

// writePage writes the page layout around the output of body.
func writePage(buf *bytes.Buffer, title string, body func(*bytes.Buffer) error) error {
	w := markup.NewWriter(buf)
	w.Raw("<!DOCTYPE html>\n")
	endHTML := w.Begin("html", markup.Attr("lang", "en"))

	endHead := w.Begin("head")
	w.Void("meta", markup.Attr("charset", "utf-8"))
	w.Element("title", title)
	endStyle := w.Begin("style")
	w.Raw(pageStyle)
	_ = endStyle()
	_ = endHead()

	endBody := w.Begin("body")
	w.Element("h1", title)
	if err := w.Err(); err != nil {
		return err
	}
	if err := body(buf); err != nil {
		return err
	}
	endScript := w.Begin("script")
	w.Raw(pageScript)
	_ = endScript()
	_ = endBody()

	if err := endHTML(); err != nil {
		return err
	}
	return w.Err()
}
