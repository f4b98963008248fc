// Package main evaluates a saved hybrid news classifier on a labeled CSV and prints
// accuracy, per-class precision, recall and F1, their averages and the confusion matrix.
package main
