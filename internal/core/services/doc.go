// Package services implements the driving port interfaces: building the
// index, retrieving chunks, answering questions and resolving settings.
//
// Services only talk to driven ports. The Runtime owns the loaded index,
// metadata and clients so every surface shares one copy.
package services
