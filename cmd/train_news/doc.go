// Package main trains the hybrid news classifier head on a labeled CSV. The training
// set is split into train and validation partitions (stratified by class), the head
// is fine-tuned on top of the frozen pretrained encoder for the configured number of
// epochs, the last epoch's parameters are saved and the model is evaluated on the
// test set when one is configured.
package main
