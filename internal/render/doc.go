// Package render is the contract between processing nodes and the graphics
// backend that compiles programs and draws them.
//
// Nothing in this package touches a GPU. A Backend implementation owns
// textures and programs; processing nodes only hand it inputs and property
// values. Property values are the tagged variant Value.
package render
