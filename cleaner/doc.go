// Package cleaner normalizes raw news text into lowercase letters separated by single spaces.
package cleaner
