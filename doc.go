// Package optics provides composable optics (folds, traversals,
// lenses) over nested, heterogeneous Go values.
//
// The core code is in package 'optic', structural adapters are in
// 'hooks', and some command-line tools are in `cmd`.
//
// See https://github.com/Comcast/optics/blob/master/README.md for more.
package optics
