// Package models holds the data types shared by the parser, aggregator,
// reporters, storage and policy layers.
package models
