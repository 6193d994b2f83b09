// Package cli implements the command-line interface for the certificate downloader.
//
// The cli package provides the Cobra-based root command. It builds the run
// configuration, authenticates against the API, lets the operator pick a form,
// collects the matching orders and downloads the medical certificates and
// waivers of every registered person, reporting progress as plain text.
package cli
