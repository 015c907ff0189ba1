package rod

// ResultsHTML mimics an image-search results grid: clicking a thumbnail opens a
// detail view whose image first shows a placeholder and then the real address.
// The load-more control appends the remaining thumbnails.
const ResultsHTML = `<!DOCTYPE html>
<html>
<head><title>Results</title>
<style>
	.thumb { display: inline-block; width: 60px; height: 60px; margin: 4px; background: #ccc; }
	#full { width: 120px; height: 120px; }
</style>
</head>
<body>
	<div id="grid">
		<div class="thumb" jsname="Q4LuWd" data-full="/img/a.jpg">a</div>
		<div class="thumb" jsname="Q4LuWd">broken</div>
	</div>
	<button id="more" jsaction="Pmjnye">Show more results</button>
	<div id="detail" style="display: none">
		<img id="full" class="n3VNCb" alt="">
	</div>
	<script>
		const detail = document.getElementById('detail');
		const full = document.getElementById('full');
		let open = null;

		function bind(el) {
			el.addEventListener('click', function () {
				if (open === el) {
					open = null;
					detail.style.display = 'none';
					full.removeAttribute('src');
					return;
				}
				open = el;
				detail.style.display = 'block';
				full.setAttribute('src', 'data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACwAAAAAAQABAAACAkQBADs=');
				const real = el.getAttribute('data-full');
				if (real) {
					setTimeout(function () {
						if (open === el) {
							full.setAttribute('src', location.origin + real);
						}
					}, 50);
				}
			});
		}

		document.querySelectorAll('[jsname="Q4LuWd"]').forEach(bind);

		document.getElementById('more').addEventListener('click', function () {
			const grid = document.getElementById('grid');
			['b', 'c', 'd'].forEach(function (name) {
				const el = document.createElement('div');
				el.className = 'thumb';
				el.setAttribute('jsname', 'Q4LuWd');
				el.setAttribute('data-full', '/img/' + name + '.jpg');
				el.textContent = name;
				grid.appendChild(el);
				bind(el);
			});
			this.style.display = 'none';
		});
	</script>
</body>
</html>`

const EmptyHTML = `<!DOCTYPE html>
<html>
<head><title>Nothing</title></head>
<body><p>Your search did not match any images.</p></body>
</html>`

// HiddenVariantHTML has a hidden match for one full-image selector and shows
// the other variant only after a delay.
const HiddenVariantHTML = `<!DOCTYPE html>
<html>
<head><title>Detail</title></head>
<body>
	<img class="n3VNCb" style="display: none" src="/img/hidden.jpg" alt="">
	<img class="iPVvYb" style="display: none" src="/img/shown.jpg" alt="">
	<script>
		setTimeout(function () {
			document.querySelector('.iPVvYb').style.display = 'inline';
		}, 200);
	</script>
</body>
</html>`
