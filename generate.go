//go:generate gomarkdoc -e -f github -o README.md . --repository.url https://github.com/agentstation/farol --repository.default-branch master --repository.path /

// Package farol reconciles the places roster kept in the warehouse with the
// members registered in Places+, writing import batches and an audit ledger.
package farol
