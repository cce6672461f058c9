// Package core contains the shared domain types for the tcgen pipeline:
// normalized requirements, atomic behaviors, classifications, generated
// test cases, coverage results, and the batch output contract consumed by
// the report writers. Types in this package are plain data carriers; the
// pipeline stages in normalize, classify, behavior, coverage, and generate
// construct them and never mutate a value after it has been returned.
package core
