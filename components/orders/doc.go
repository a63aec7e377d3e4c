// Package orders exposes order submission and template persistence as a
// mountable net/http component. Submissions are validated server side:
// an order without line items, or with amounts that disagree with
// quantity times unit price, is rejected with 422 before it reaches the
// store. Template writes are normalized to the canonical flat shape so
// legacy payloads never persist as-is.
package orders
