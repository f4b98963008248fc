// Package main continues training the hybrid news classifier semi-supervised. Each
// labeled batch is combined with a cross-entropy loss on pseudo-labeled samples (model
// predictions above a confidence threshold on an unlabeled CSV) and a consistency loss
// between clean and noised representations. The validation report is printed after
// every epoch.
package main
