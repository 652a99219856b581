// Package jobtext extracts the text of a job posting from a rendered web page
// and hands it to a downstream consumer for persistence and analysis.
//
// The page is classified by URL, an extraction plan is chosen for the site,
// every document context of the page (top frame and nested frames) is
// extracted concurrently, and the single best result is forwarded through a
// Transport.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package jobtext
