// Package scribd is a client for the Scribd document-hosting API.
//
// # Overview
//
// Applications upload, convert, search and manage documents through a
// Client. Remote records are shadowed by entities: the API-account user,
// logged-in users, virtual users and documents. Every entity embeds a
// Resource holding the record's remote fields.
//
// # Configuration Example
//
//	client, err := scribd.New(&scribd.Config{
//	  APIKey:    os.Getenv("SCRIBD_API_KEY"),
//	  APISecret: os.Getenv("SCRIBD_API_SECRET"),
//	  Logger:    hclog.Default(),
//	})
//
// # Resource Fields
//
// Fields returned by the server are stored; fields changed with Set are
// pending until saved. Get prefers the pending value:
//
//	doc, _ := user.GetDocument(ctx, "12345")
//	doc.Set("title", "Quarterly Report")
//	doc.Set("access", "private")
//	saved, err := doc.Save(ctx) // one docs.changeSettings call
//
// A reload replaces stored fields and drops pending edits of the same
// names.
//
// # Paging
//
// ListAll and SearchAll return iterators that fetch one page per call, only
// when needed:
//
//	it := user.ListAll(scribd.ListOptions{PageSize: 50})
//	for doc, err := range it.All(ctx) {
//	  ...
//	}
//
// # Wire Protocol
//
// Every call is a multipart/form-data POST signed with the MD5 digest of the
// API secret followed by the sorted name/value pairs of all non-file fields.
// Responses are XML envelopes with a root "rsp" element whose "stat"
// attribute is "ok" or "fail". Transport failures and HTTP 500 responses are
// retried for Config.RetryWindow.
package scribd
