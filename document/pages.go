package document

import (
	"github.com/wudi/formkit/ir/raw"
	"github.com/wudi/formkit/observability"
)

const maxTreeDepth = 32

// refreshPages flattens the page tree in document order.
func (d *Document) refreshPages() {
	d.pages = d.pages[:0]
	root := d.store.GetDict(d.catalog, "Pages")
	seen := make(map[*raw.DictObj]bool)
	d.collectPages(root, 0, seen)
}

func (d *Document) collectPages(node *raw.DictObj, depth int, seen map[*raw.DictObj]bool) {
	if node == nil || seen[node] {
		return
	}
	if depth > maxTreeDepth {
		d.log.Error("page tree too deep", observability.Int("depth", depth))
		return
	}
	seen[node] = true
	kids := d.store.GetArray(node, "Kids")
	if typ, _ := d.store.GetName(node, "Type"); typ == "Page" || (typ == "" && kids == nil) {
		d.pages = append(d.pages, node)
		return
	}
	if kids == nil {
		return
	}
	for _, k := range kids.Items {
		d.collectPages(d.store.AsDict(k), depth+1, seen)
	}
}

// Pages returns the page dictionaries in document order.
func (d *Document) Pages() []*raw.DictObj {
	out := make([]*raw.DictObj, len(d.pages))
	copy(out, d.pages)
	return out
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the page with 1-based number n, or nil.
func (d *Document) Page(n int) *raw.DictObj {
	if n < 1 || n > len(d.pages) {
		return nil
	}
	return d.pages[n-1]
}

// PageNumber returns the 1-based number of page, or 0.
func (d *Document) PageNumber(page *raw.DictObj) int {
	for i, p := range d.pages {
		if p == page {
			return i + 1
		}
	}
	return 0
}

// PageOf returns the page annot is placed on: its /P entry, or the page
// whose /Annots lists it.
func (d *Document) PageOf(annot *raw.DictObj) *raw.DictObj {
	if p := d.store.GetDict(annot, "P"); p != nil {
		return p
	}
	for _, p := range d.pages {
		annots := d.store.GetArray(p, "Annots")
		if annots == nil {
			continue
		}
		for _, a := range annots.Items {
			if d.store.AsDict(a) == annot {
				return p
			}
		}
	}
	return nil
}

// PageRotation returns the /Rotate of page, inherited through the page
// tree and normalised to [0, 360).
func (d *Document) PageRotation(page *raw.DictObj) int {
	node := page
	for depth := 0; node != nil && depth <= maxTreeDepth; depth++ {
		if r, ok := d.store.GetInt(node, "Rotate"); ok {
			r %= 360
			if r < 0 {
				r += 360
			}
			return r
		}
		node = d.store.GetDict(node, "Parent")
	}
	return 0
}

// AddPage appends an empty page of the given size to the root of the page
// tree and returns it.
func (d *Document) AddPage(width, height float64) *raw.DictObj {
	root := d.store.GetDict(d.catalog, "Pages")
	if root == nil {
		root = raw.DictOf(map[string]raw.Object{"Type": raw.NameLiteral("Pages"), "Kids": raw.NewArray()})
		d.store.Put(d.catalog, "Pages", d.store.MakeIndirect(root))
	}
	page := raw.DictOf(map[string]raw.Object{
		"Type":      raw.NameLiteral("Page"),
		"Parent":    d.store.MakeIndirect(root),
		"MediaBox":  raw.Floats(0, 0, width, height),
		"Resources": raw.Dict(),
	})
	ref := d.store.MakeIndirect(page)
	kids := d.store.GetArray(root, "Kids")
	switch {
	case kids == nil:
		d.store.Put(root, "Kids", raw.NewArray(ref))
	case d.store.IsIndirect(kids):
		kids.Append(ref)
		d.store.MarkModified(kids)
	default:
		kids.Append(ref)
		d.store.MarkModified(root)
	}
	count, _ := d.store.GetInt(root, "Count")
	d.store.Put(root, "Count", raw.NumberInt(int64(count+1)))
	for node := d.store.GetDict(root, "Parent"); node != nil; node = d.store.GetDict(node, "Parent") {
		c, _ := d.store.GetInt(node, "Count")
		d.store.Put(node, "Count", raw.NumberInt(int64(c+1)))
	}
	d.refreshPages()
	return page
}
