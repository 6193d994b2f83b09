// Package extractor downloads the registration documents attached to orders.
//
// For every person of every order, the custom fields are searched in their
// given order for a medical certificate (label containing "certificat-medical"
// once normalized) and, independently, for a liability waiver (label containing
// "decharge" or "attestation"). The first matching field of each kind wins and
// its answer URL is downloaded to <form-slug>/<Lastname>_<Firstname>-<kind>.<ext>.
// A person without a matching field simply gets no file of that kind.
package extractor
