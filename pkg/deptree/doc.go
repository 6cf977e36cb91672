// Package deptree reads pipdeptree output and builds the package graph.
//
// Generate the input inside the environment to inspect:
//
//	pipdeptree --json > deps.json
//
// then parse and build:
//
//	records, err := deptree.ParseFile("deps.json")
//	g := deptree.Build(records, true)
//
// Nodes are identified by [PackageID] ("name==version"); the same package at
// two versions is two nodes. The synthetic [Root] stands for the environment.
package deptree
