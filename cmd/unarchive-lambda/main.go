// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/hashicorp/go-unarchive/cmd"
)

// main starts the lambda function
func main() {
	lambda.Start(cmd.Handle)
}
