package templates

import "sales-dashboard/internal/render"

var stylesheet = `
* { box-sizing: border-box; }
body { margin: 0; font-family: "Segoe UI", Roboto, sans-serif; background: ` + render.PageBackground + `; color: ` + render.TextColor + `; }
.topbar { display: flex; align-items: center; justify-content: space-between; padding: 16px 32px; }
.topbar h1 { margin: 0; font-size: 26px; }
.nav-link { color: ` + render.TextColor + `; margin-left: 16px; text-decoration: none; opacity: .75; }
.nav-link.active { opacity: 1; font-weight: 600; border-bottom: 2px solid ` + render.SeriesColor + `; }
main { padding: 0 32px 32px; }
.toolbar { display: flex; align-items: center; justify-content: space-between; margin-bottom: 16px; }
.status { margin: 0; opacity: .8; font-size: 14px; }
.status-error { opacity: 1; color: ` + render.SeriesColor + `; font-weight: 600; }
.refresh { background: ` + render.CardBackground + `; color: ` + render.TextColor + `; border: 0; border-radius: 6px; padding: 8px 16px; cursor: pointer; }
.refresh[disabled] { opacity: .5; cursor: wait; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 24px; }
.card { background: ` + render.CardBackground + `; border-radius: 10px; padding: 20px; display: flex; flex-direction: column; gap: 8px; }
.card-title { font-size: 14px; text-transform: uppercase; opacity: .8; }
.card-value { font-size: 28px; font-weight: 700; }
.card.open .card-value, .card.failed .card-value { font-size: 20px; font-style: italic; opacity: .8; }
.chart-section h2 { font-size: 20px; margin: 24px 0 12px; }
.chart-card { background: ` + render.CardBackground + `; border-radius: 10px; padding: 12px; margin-bottom: 24px; }
.chart { width: 100%; }
.chart-error, .load-error, .not-found { padding: 24px; border: 1px dashed ` + render.GridLineColor + `; }
.chart-error h3 { margin-top: 0; }
`

// chartScript initialises every [data-chart] container and keeps doing so
// as server-sent patches replace them.
const chartScript = `
(function () {
  var instances = new Map();

  function labelFormatter(labels, kind) {
    return function (p) {
      var text = labels[p.dataIndex];
      if (text === undefined) { text = p.value; }
      return kind === 'pie' ? p.name + ': ' + text + ' (' + p.percent + '%)' : text;
    };
  }

  function init(el) {
    var payload = JSON.parse(el.dataset.chart);
    var options = payload.options || {};
    (options.series || []).forEach(function (s, i) {
      var labels = (payload.labels || [])[i] || [];
      s.label = s.label || {};
      s.label.formatter = labelFormatter(labels, payload.kind);
    });

    var previous = instances.get(el.id);
    if (previous) { previous.dispose(); }
    var chart = echarts.init(el);
    chart.setOption(options);
    instances.set(el.id, chart);
    el.__payload = el.dataset.chart;
  }

  function scan() {
    document.querySelectorAll('[data-chart]').forEach(function (el) {
      if (el.__payload !== el.dataset.chart || !instances.has(el.id) || instances.get(el.id).getDom() !== el) {
        init(el);
      }
    });
  }

  new MutationObserver(scan).observe(document.body, {
    childList: true, subtree: true, attributes: true, attributeFilter: ['data-chart']
  });
  window.addEventListener('resize', function () {
    instances.forEach(function (c) { c.resize(); });
  });
  scan();
})();
`
