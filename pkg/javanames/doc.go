// Package javanames resolves the Java names protoc gives to Protobuf
// declarations: packages, outer classes, nested class names, the source file
// a type is generated into, and the Java types of fields.
//
// The rules follow protoc's Java generator with default options.
package javanames
