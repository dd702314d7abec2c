// Package retriever executes query plans: it embeds the query variants,
// searches the code and summary vector indexes in parallel, matches file
// summaries for file-oriented queries, and optionally widens the hit set
// with chunks from structurally related files.
package retriever
