// Package groupby implements grouped reporting for admin listings: resolving the requested
// group-by fields against a listing's allow-list, describing the aggregates computed per group,
// post-processing custom aggregates, reducing grouped rows into grand totals and resolving the
// labels presentation needs.
//
// Building and executing the grouped query itself is the record store's job (see internal/repo);
// this package only consumes the rows it returns.
package groupby
