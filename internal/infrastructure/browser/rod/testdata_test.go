package rod

// TestHTML templates for testing
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	// FramesRootHTML embeds a named widget frame and an anonymous ad
	// frame; the widget itself embeds one more level.
	FramesRootHTML = `<!DOCTYPE html>
<html>
<head><title>Frames Root</title></head>
<body>
	<h1>Storefront</h1>
	<iframe name="search-widget" title="Search Widget" src="/widget"></iframe>
	<iframe src="/ad"></iframe>
</body>
</html>`

	WidgetFrameHTML = `<!DOCTYPE html>
<html>
<head><title>Search Widget Page</title></head>
<body>
	<button id="widget-go">Go</button>
	<iframe id="widget-inner" src="/inner"></iframe>
</body>
</html>`

	InnerFrameHTML = `<!DOCTYPE html>
<html>
<head><title>Inner</title></head>
<body><p>deep content</p></body>
</html>`

	AdFrameHTML = `<!DOCTYPE html>
<html>
<head><title>Ad</title></head>
<body><a href="#offer">Buy stuff</a></body>
</html>`

	RichUIHTML = `<!DOCTYPE html>
<html>
<head><title>Product Page</title></head>
<body>
	<img src="data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACH5BAEAAAAALAAAAAABAAEAAAICRAEAOw==" alt="Company logo" />
	<h1>Wireless Mouse</h1>
	<span>Free shipping on orders over $20</span>
	<button id="add">Add to cart</button>
	<button id="close" title="Close dialog">x</button>
	<a href="#help">Help Center</a>
	<label>Email address <input id="email" type="email" /></label>
	<label for="qty">Quantity</label>
	<input id="qty" type="number" />
	<input id="coupon" aria-label="Coupon code" />
	<input id="search" placeholder="Search products" />
	<button id="ghost" style="display:none">Ghost button</button>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<head><title>Order Form</title></head>
<body>
	<form id="order" onsubmit="return false">
		<input id="search" type="text" placeholder="Search products"
			onkeydown="if (event.key === 'Enter') document.getElementById('echo').textContent = 'enter-pressed'" />
		<select id="size" title="Choose size" onchange="document.getElementById('echo').textContent = 'size=' + this.value">
			<option value="">Pick a size</option>
			<option value="small">Small</option>
			<option value="large">Large</option>
		</select>
		<button type="button" id="show"
			onmouseover="document.getElementById('echo').textContent = 'hovering'"
			onclick="document.getElementById('echo').textContent = 'value=[' + document.getElementById('search').value + ']'">Show value</button>
	</form>
	<div id="echo"></div>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<head><title>Interactive</title></head>
<body>
	<button id="btn">Click Me</button>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	ScrollableHTML = `<!DOCTYPE html>
<html>
<head><title>Tall Page</title></head>
<body style="height: 5000px; margin: 0;">
	<h1 id="top">Top of Page</h1>
	<div style="margin-top: 2000px;" id="middle">Middle marker</div>
	<div style="margin-top: 2000px;" id="bottom">Bottom marker</div>
</body>
</html>`
)
