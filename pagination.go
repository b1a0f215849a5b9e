package mapsapi

import "time"

// PageTokenDelay is the documented minimum wait between receiving a
// next_page_token and using it. The client does not wait on its own; a
// token used too early yields INVALID_REQUEST.
const PageTokenDelay = 2 * time.Second

// HasNextPage reports whether the response carries a continuation token.
func (r *PlacesResponse) HasNextPage() bool {
	return r != nil && r.NextPageToken != ""
}

// NextPageRequest returns a copy of prev that asks for the page following
// resp, or nil when resp is the last page. The other fields of prev are kept
// and still sent; the service ignores them in favour of the token.
func NextPageRequest(prev *PlacesRequest, resp *PlacesResponse) *PlacesRequest {
	if prev == nil || !resp.HasNextPage() {
		return nil
	}
	next := *prev
	next.PageToken = resp.NextPageToken
	return &next
}
