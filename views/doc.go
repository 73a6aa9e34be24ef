// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the HTML pages.

Templates are embedded in the binary and share one layout. Each page has a
matching data type (IndexPage, DetailPage, ...) that embeds Base for the
logged-in user shown in the header:

	renderer, err := views.New(nil)
	renderer.Render(w, http.StatusOK, views.PageIndex, views.IndexPage{...})

Template functions: ago (relative time), comma (thousands separators),
percent (one decimal) and plural.
*/
package views
