// Package common holds middleware shared by every tool package.
package common
